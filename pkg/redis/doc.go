// Package redis connects to the Redis server that backs the device signal store.
//
// It wraps go-redis with a retrying Connect and a readiness check. Config fields
// carry env tags and are loaded with the config package.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ready := redis.Healthcheck(client)
//
// Sentinel errors wrap go-redis errors with errors.Join, so errors.Is works on
// both.
package redis
