package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName      = "config"
	configType      = "toml"
	FleetPathKey    = "fleet.path"
	fleetFileMode   = 0o644
	fleetDirMode    = 0o755
	fleetConfigDir  = ".droidfleet"
	fleetConfigFile = "fleet.toml"
	tempFilePattern = ".fleet-*.toml.tmp"
)

// Repository reads and writes the fleet file. Its location comes from the
// fleet.path setting, which ~/.droidfleet/config.toml may define.
type Repository struct {
	fleetPath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.FleetConfigRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, fleetConfigDir, fleetConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, fleetConfigDir))
	cfg.SetDefault(FleetPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	fleetPath := cfg.GetString(FleetPathKey)
	if fleetPath == "" {
		return nil, errors.New("fleet path is empty")
	}
	fleetPath, err = normalizePath(fleetPath)
	if err != nil {
		return nil, err
	}

	return &Repository{fleetPath: fleetPath, mu: lockForPath(fleetPath)}, nil
}

func (r *Repository) Path() string {
	return r.fleetPath
}

// Load reads the fleet file. A missing file is an empty configuration.
func (r *Repository) Load(ctx context.Context) (ports.FleetConfig, error) {
	if err := ctx.Err(); err != nil {
		return ports.FleetConfig{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return ports.FleetConfig{}, err
	}

	// The log path survives a bad selection so that callers replacing the
	// selection can keep it.
	selection, err := file.selection()
	if err != nil {
		return ports.FleetConfig{LogPath: file.LogPath}, fmt.Errorf("fleet file %s: %w", r.fleetPath, err)
	}

	return ports.FleetConfig{LogPath: file.LogPath, Selection: selection}, nil
}

func (r *Repository) Save(ctx context.Context, config ports.FleetConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if config.Selection.IsEmpty() {
		return domain.ErrEmptyConfig
	}
	for _, cfg := range config.Selection.Devices {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := fileSchema{
		LogPath: config.LogPath,
		Devices: encodeSelection(config.Selection),
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.fleetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read fleet file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode fleet file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve fleet path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.fleetPath), fleetDirMode); err != nil {
		return fmt.Errorf("create fleet directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode fleet file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.fleetPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp fleet file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp fleet file: %w", err)
	}

	if err := tempFile.Chmod(fleetFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp fleet file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp fleet file: %w", err)
	}

	if err := os.Rename(tempName, r.fleetPath); err != nil {
		return fmt.Errorf("replace fleet file: %w", err)
	}
	cleanup = false

	return nil
}
