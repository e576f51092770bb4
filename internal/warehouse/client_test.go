package warehouse

import "testing"

func TestConfigWarehouseID(t *testing.T) {
	tests := []struct {
		name     string
		httpPath string
		want     string
	}{
		{"standard path", "/sql/1.0/warehouses/abcd1234567890ef", "abcd1234567890ef"},
		{"trailing slash", "/sql/1.0/warehouses/abcd1234567890ef/", "abcd1234567890ef"},
		{"bare id", "abcd1234567890ef", "abcd1234567890ef"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{HTTPPath: tt.httpPath}
			if got := cfg.WarehouseID(); got != tt.want {
				t.Errorf("WarehouseID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusBeforeFirstUse(t *testing.T) {
	c := NewClient(Config{Host: "https://example.cloud.databricks.com"})

	status := c.Status()
	if status.Attempted {
		t.Error("Attempted = true before any warehouse operation")
	}
	if status.Connected {
		t.Error("Connected = true before any warehouse operation")
	}
	if status.Error != "" {
		t.Errorf("Error = %q, want empty", status.Error)
	}
}
