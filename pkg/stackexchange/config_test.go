package stackexchange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectedErr error
	}{
		{
			name:   "valid config",
			config: Config{URL: "https://api.stackexchange.com/2.3", Site: "stackoverflow"},
		},
		{
			name:        "missing URL",
			config:      Config{Site: "stackoverflow"},
			expectedErr: ErrURLRequired,
		},
		{
			name:        "missing site",
			config:      Config{URL: "https://api.stackexchange.com/2.3"},
			expectedErr: ErrSiteRequired,
		},
		{
			name:        "page size too large",
			config:      Config{URL: "https://api.stackexchange.com/2.3", Site: "stackoverflow", PageSize: 101},
			expectedErr: ErrInvalidPageSize,
		},
		{
			name:        "negative max pages",
			config:      Config{URL: "https://api.stackexchange.com/2.3", Site: "stackoverflow", MaxPages: -1},
			expectedErr: ErrInvalidMaxPages,
		},
		{
			name:        "negative rate",
			config:      Config{URL: "https://api.stackexchange.com/2.3", Site: "stackoverflow", RequestsPerSecond: -1},
			expectedErr: ErrInvalidRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	config := Config{URL: "https://api.stackexchange.com/2.3", Site: "stackoverflow"}

	config.SetDefaults()

	assert.Equal(t, "withbody", config.Filter)
	assert.Equal(t, "activity", config.Sort)
	assert.Equal(t, 100, config.PageSize)
	assert.Equal(t, 10, config.MaxPages)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.InDelta(t, 10.0, config.RequestsPerSecond, 1e-9)
}

func TestConfig_Query(t *testing.T) {
	config := Config{Tagged: "r;ggplot2", Body: "Error"}

	assert.Equal(t, Query{Tagged: "r;ggplot2", Body: "Error"}, config.Query())
}
