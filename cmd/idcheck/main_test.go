package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/linemk/topup-store/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	body string
	err  error
	got  service.LookupQuery
}

func (f *fakeLookup) CheckID(ctx context.Context, q service.LookupQuery) (json.RawMessage, error) {
	f.got = q
	return json.RawMessage(f.body), f.err
}

func TestRun_PrintsIndentedJSON(t *testing.T) {
	svc := &fakeLookup{body: `{"data":{"username":"Alice"}}`}
	var out bytes.Buffer

	err := run(context.Background(), svc, service.LookupQuery{UserID: "555", ServerID: "2001"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"data\": {\n    \"username\": \"Alice\"\n  }\n}\n", out.String())
	assert.Equal(t, "555", svc.got.UserID)
}

func TestRun_ReturnsLookupError(t *testing.T) {
	lookupErr := errors.New("boom")
	var out bytes.Buffer

	err := run(context.Background(), &fakeLookup{err: lookupErr}, service.LookupQuery{}, &out)
	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, out.String())
}

func TestGetEnv(t *testing.T) {
	orig := lookupEnv
	defer func() { lookupEnv = orig }()

	lookupEnv = func(key string) (string, bool) {
		if key == "RAPIDAPI_KEY" {
			return "from-env", true
		}
		return "", false
	}

	assert.Equal(t, "from-env", GetEnv("RAPIDAPI_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("OTHER", "fallback"))
}
