package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehendu098/ghost/snverify/pkg/log"
)

func TestLoadConfig(t *testing.T) {
	setEnv(t, testAddress, testPrivateKey, "")
	require.NoError(t, os.Unsetenv("STARKNET_RPC_URL"))

	conf, err := LoadConfig("", log.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, testAddress, conf.Address)
	assert.Equal(t, testPrivateKey, conf.PrivateKey)
	assert.Equal(t, defaultRPCURL, conf.RPCURL)
	assert.Empty(t, conf.MetricsTextfile)
	assert.NoError(t, conf.Validate(envAddress, envPrivateKey, envRPCURL))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		conf   Config
		fields []string
		errMsg string
	}{
		{
			name:   "Complete",
			conf:   Config{Address: "0x1", PrivateKey: "abc", RPCURL: "http://localhost:5050"},
			fields: []string{envAddress, envPrivateKey, envRPCURL},
		},
		{
			name:   "Unchecked fields are ignored",
			conf:   Config{Address: "0x1"},
			fields: []string{envAddress},
		},
		{
			name:   "Missing address",
			conf:   Config{PrivateKey: "0x1", RPCURL: defaultRPCURL},
			fields: []string{envAddress, envPrivateKey},
			errMsg: "ADDRESS is required",
		},
		{
			name:   "Key is not hex",
			conf:   Config{Address: "0x1", PrivateKey: "secret"},
			fields: []string{envPrivateKey},
			errMsg: "PRIVATE_KEY must be a valid hexadecimal",
		},
		{
			name:   "Bad node url",
			conf:   Config{Address: "0x1", PrivateKey: "0x1", RPCURL: "not a url"},
			fields: []string{envRPCURL},
			errMsg: "STARKNET_RPC_URL must be a valid url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate(tt.fields...)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NotContains(t, err.Error(), tt.conf.PrivateKey)
		})
	}
}
