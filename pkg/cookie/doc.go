// Package cookie reads and writes plain and HMAC-signed HTTP cookies.
//
// The session resolver reads the persist collaborator's cookies (last activity,
// cross-tab candidate, tab id) through a Manager. When the collaborator signs its
// cookies, GetSigned rejects tampered values, which the resolver then treats as
// absent.
//
//	mgr, err := cookie.New([]string{os.Getenv("COOKIE_SECRETS")})
//	if err != nil {
//		return err
//	}
//	_ = mgr.SetSigned(w, "_ms_sid", "pvs_1700000000000_k3j9x2")
//	id, err := mgr.GetSigned(r, "_ms_sid")
//
// Secrets must be at least 32 characters. Pass several to rotate: the first one
// signs, all of them verify.
package cookie
