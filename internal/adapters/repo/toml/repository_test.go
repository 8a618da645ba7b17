package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/bnema/droidfleet/internal/ports"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, content string) *Repository {
	t.Helper()

	fleetPath := filepath.Join(t.TempDir(), "fleet.toml")
	if content != "" {
		require.NoError(t, os.WriteFile(fleetPath, []byte(content), 0o644))
	}
	config := viper.New()
	config.Set(FleetPathKey, fleetPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	return repo
}

func TestRepositoryLoadPickAll(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "version = 1\nlog_path = \"/var/logs\"\ndevices = \"*\"\n")

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.FleetConfig{LogPath: "/var/logs", Selection: domain.FleetSelection{All: true}}, got)
}

func TestRepositoryLoadSerialList(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "devices = [\"serialA\", \"serialB\"]\n")

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Serial{"serialA", "serialB"}, got.Selection.Serials)
}

func TestRepositoryLoadDeviceTables(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, `version = 1

[[devices]]
serial = "serialA"
skip_session = true
logcat_param = "-b main"
label = "dut"
phone_number = 5550100
sim = "tmo"

[devices.extra]
slot = 1

[[devices]]
serial = "serialB"
skip_sl4a = false
adb_logcat_param = "-b radio"
host_port = 9100
`)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DeviceConfig{
		{
			Serial:      "serialA",
			SkipSession: true,
			LogcatParam: "-b main",
			Label:       "dut",
			PhoneNumber: "5550100",
			Extra:       map[string]string{"sim": "tmo", "slot": "1"},
		},
		{
			Serial:      "serialB",
			LogcatParam: "-b radio",
			HostPort:    9100,
		},
	}, got.Selection.Devices)
}

func TestRepositoryLoadRejectsIntrinsicAttribute(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "[[devices]]\nserial = \"serialA\"\nmodel = \"angler\"\n")

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrAttributeConflict)
}

func TestRepositoryLoadRejectsMissingSerial(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "[[devices]]\nlabel = \"dut\"\n")

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidSerial)
}

func TestRepositoryLoadMissingFileIsEmptyConfig(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "")

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptyConfig)
}

func TestRepositoryLoadRejectsUnknownToken(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "devices = \"all\"\n")

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"*"`)
}

func TestRepositoryLoadRejectsFutureSchemaVersion(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "version = 2\ndevices = \"*\"\n")

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrUnsupportedSchema)
}

func TestRepositorySaveRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "")
	want := ports.FleetConfig{
		LogPath: "/tmp/logs",
		Selection: domain.FleetSelection{Devices: []domain.DeviceConfig{
			{Serial: "serialA", SkipSession: true, Label: "dut", Extra: map[string]string{"sim": "tmo"}},
			{Serial: "serialB", DevicePort: 9000},
		}},
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRepositorySaveSerials(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "")
	want := ports.FleetConfig{Selection: domain.FleetSelection{Serials: []domain.Serial{"serialA"}}}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRepositorySaveRejectsEmptySelection(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "")

	require.ErrorIs(t, repo.Save(context.Background(), ports.FleetConfig{}), domain.ErrEmptyConfig)
}

func TestRepositoryHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, "devices = \"*\"\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
