package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mssession/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want environment.Environment
	}{
		{name: "production", in: "production", want: environment.Production},
		{name: "prod short form", in: "prod", want: environment.Production},
		{name: "staging", in: "staging", want: environment.Staging},
		{name: "stage short form", in: " Stage ", want: environment.Staging},
		{name: "development", in: "development", want: environment.Development},
		{name: "empty", in: "", want: environment.Development},
		{name: "unknown", in: "qa", want: environment.Development},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.in))
		})
	}

	assert.True(t, environment.Production.IsProduction())
	assert.False(t, environment.Staging.IsProduction())
}
