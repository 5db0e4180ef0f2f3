package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-c", "client.yaml", "-a", "http://localhost:8000"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "client.yaml"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=alt.json", "-a", "http://localhost:8000"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "photo.jpg"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value kept",
			args:         []string{"-d"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "next flag is never swallowed as a value",
			args:         []string{"-c", "-config=alt.json"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "-config=alt.json"},
		},
		{
			name:         "equals value may start with a dash",
			args:         []string{"-d=-odd-dir"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d=-odd-dir"},
		},
		{
			name:         "order and repeats preserved",
			args:         []string{"-a", "http://one", "-w", "ws://two", "-a", "http://three"},
			allowedFlags: []string{"-a", "-w"},
			want:         []string{"-a", "http://one", "-w", "ws://two", "-a", "http://three"},
		},
		{
			name:         "empty",
			args:         []string{},
			allowedFlags: []string{"-a"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short form", func(t *testing.T) {
		os.Args = []string{"client", "-c", "/etc/securevision/client.yaml"}
		assert.Equal(t, "/etc/securevision/client.yaml", ConfigFileFlag())
	})

	t.Run("long form", func(t *testing.T) {
		os.Args = []string{"client", "-config", "client.json"}
		assert.Equal(t, "client.json", ConfigFileFlag())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"client", "-a", "http://localhost:8000"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"client", "-c", "one.json", "-config", "two.yaml"}
		assert.Equal(t, "two.yaml", ConfigFileFlag())
	})
}
