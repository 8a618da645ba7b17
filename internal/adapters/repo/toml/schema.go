package toml

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/bnema/droidfleet/internal/domain"
)

const currentSchemaVersion = 1

// fileSchema is the on-disk fleet file. Devices holds either the pick-all
// token, a list of serials or a list of device tables.
type fileSchema struct {
	Version int    `toml:"version"`
	LogPath string `toml:"log_path,omitempty"`
	Devices any    `toml:"devices,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("%w: version %d (current %d)", domain.ErrUnsupportedSchema, s.Version, currentSchemaVersion)
	}

	return nil
}

// keyAliases maps the key names older fleet files used.
var keyAliases = map[string]string{
	"skip_sl4a":        "skip_session",
	"adb_logcat_param": "logcat_param",
}

func (s fileSchema) selection() (domain.FleetSelection, error) {
	switch devices := s.Devices.(type) {
	case nil:
		return domain.FleetSelection{}, domain.ErrEmptyConfig
	case string:
		if devices != domain.PickAllToken {
			return domain.FleetSelection{}, fmt.Errorf("devices must be %q or a list, got %q", domain.PickAllToken, devices)
		}
		return domain.FleetSelection{All: true}, nil
	case []any:
		return listSelection(devices)
	default:
		return domain.FleetSelection{}, fmt.Errorf("devices must be %q or a list, got %T", domain.PickAllToken, devices)
	}
}

func listSelection(entries []any) (domain.FleetSelection, error) {
	if len(entries) == 0 {
		return domain.FleetSelection{}, domain.ErrEmptyConfig
	}

	if _, ok := entries[0].(string); ok {
		serials := make([]domain.Serial, 0, len(entries))
		for i, entry := range entries {
			serial, ok := entry.(string)
			if !ok {
				return domain.FleetSelection{}, fmt.Errorf("devices[%d]: expected a serial, got %T", i, entry)
			}
			serials = append(serials, domain.Serial(serial))
		}
		return domain.FleetSelection{Serials: serials}, nil
	}

	configs := make([]domain.DeviceConfig, 0, len(entries))
	for i, entry := range entries {
		table, ok := entry.(map[string]any)
		if !ok {
			return domain.FleetSelection{}, fmt.Errorf("devices[%d]: expected a table, got %T", i, entry)
		}
		cfg, err := decodeDevice(table)
		if err != nil {
			return domain.FleetSelection{}, fmt.Errorf("devices[%d]: %w", i, err)
		}
		configs = append(configs, cfg)
	}

	return domain.FleetSelection{Devices: configs}, nil
}

func decodeDevice(table map[string]any) (domain.DeviceConfig, error) {
	cfg := domain.DeviceConfig{}
	extra := map[string]string{}

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := table[key]
		name := key
		if alias, ok := keyAliases[key]; ok {
			name = alias
		}

		var err error
		switch name {
		case "serial":
			var serial string
			serial, err = stringValue(value)
			cfg.Serial = domain.Serial(serial)
		case "skip_session":
			cfg.SkipSession, err = boolValue(value)
		case "logcat_param":
			cfg.LogcatParam, err = stringValue(value)
		case "host_port":
			cfg.HostPort, err = intValue(value)
		case "device_port":
			cfg.DevicePort, err = intValue(value)
		case "label":
			cfg.Label, err = stringValue(value)
		case "phone_number":
			cfg.PhoneNumber = scalarString(value)
		case "extra":
			nested, ok := value.(map[string]any)
			if !ok {
				err = fmt.Errorf("expected a table, got %T", value)
				break
			}
			for nestedKey, nestedValue := range nested {
				extra[nestedKey] = scalarString(nestedValue)
			}
		default:
			extra[key] = scalarString(value)
		}
		if err != nil {
			return domain.DeviceConfig{}, fmt.Errorf("%s: %w", key, err)
		}
	}

	if len(extra) > 0 {
		cfg.Extra = extra
	}
	if err := cfg.Validate(); err != nil {
		return domain.DeviceConfig{}, err
	}

	return cfg, nil
}

func encodeSelection(selection domain.FleetSelection) any {
	switch {
	case selection.All:
		return domain.PickAllToken
	case len(selection.Serials) > 0:
		serials := make([]string, 0, len(selection.Serials))
		for _, serial := range selection.Serials {
			serials = append(serials, string(serial))
		}
		return serials
	case len(selection.Devices) > 0:
		tables := make([]map[string]any, 0, len(selection.Devices))
		for _, cfg := range selection.Devices {
			tables = append(tables, encodeDevice(cfg))
		}
		return tables
	default:
		return nil
	}
}

func encodeDevice(cfg domain.DeviceConfig) map[string]any {
	table := map[string]any{"serial": string(cfg.Serial)}
	if cfg.SkipSession {
		table["skip_session"] = true
	}
	if cfg.LogcatParam != "" {
		table["logcat_param"] = cfg.LogcatParam
	}
	if cfg.HostPort != 0 {
		table["host_port"] = cfg.HostPort
	}
	if cfg.DevicePort != 0 {
		table["device_port"] = cfg.DevicePort
	}
	if cfg.Label != "" {
		table["label"] = cfg.Label
	}
	if cfg.PhoneNumber != "" {
		table["phone_number"] = cfg.PhoneNumber
	}
	if len(cfg.Extra) > 0 {
		extra := make(map[string]any, len(cfg.Extra))
		for key, value := range cfg.Extra {
			extra[key] = value
		}
		table["extra"] = extra
	}

	return table
}

func stringValue(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", value)
	}

	return s, nil
}

func boolValue(value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", value)
	}

	return b, nil
}

func intValue(value any) (int, error) {
	switch n := value.(type) {
	case int64:
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("expected an integer: %w", err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", value)
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
