package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/pkg/mathutil"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DbTypeKey is the storage backend to use. Either "badger" or "inmemory"
	DbTypeKey = "DB_TYPE"
	// NativeAssetKey is the asset hash treated as the ledger's native asset
	NativeAssetKey = "NATIVE_ASSET"
	// AdminAccountKey is the account granted the admin and fee manager roles
	// at startup
	AdminAccountKey = "ADMIN_ACCOUNT"
	// DefaultFeePPMKey is the trade fee in parts per million applied to pairs
	// without an override
	DefaultFeePPMKey = "DEFAULT_FEE_PPM"
	// StatsIntervalKey defines the interval in seconds for printing basic
	// engine statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation = "db"

	DbTypeBadger   = "badger"
	DbTypeInMemory = "inmemory"
)

var vip *viper.Viper

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("CURVEX")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DbTypeKey, DbTypeBadger)
	vip.SetDefault(NativeAssetKey, strings.Repeat("00", 32))
	vip.SetDefault(AdminAccountKey, "admin")
	vip.SetDefault(DefaultFeePPMKey, 2000)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}
}

//GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

//GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

//GetUint32 ...
func GetUint32(key string) uint32 {
	return vip.GetUint32(key)
}

//GetDuration ...
func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

//GetBool ...
func GetBool(key string) bool {
	return vip.GetBool(key)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory holding the database files, creating it if
// needed.
func GetDbDir() (string, error) {
	dbDir := filepath.Join(GetDatadir(), DbLocation)
	if err := makeDirectoryIfNotExists(dbDir); err != nil {
		return "", err
	}
	return dbDir, nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	dbType := GetString(DbTypeKey)
	if dbType != DbTypeBadger && dbType != DbTypeInMemory {
		return fmt.Errorf(
			"db type must be either '%s' or '%s'", DbTypeBadger, DbTypeInMemory,
		)
	}

	if err := domain.ValidateAsset(GetString(NativeAssetKey)); err != nil {
		return fmt.Errorf("native asset is not a valid asset hash")
	}

	if uint64(GetUint32(DefaultFeePPMKey)) >= mathutil.OneMillion {
		return fmt.Errorf(
			"default fee must be expressed in ppm and be lower than %d",
			mathutil.OneMillion,
		)
	}

	if GetString(AdminAccountKey) == "" {
		return fmt.Errorf("admin account must not be null")
	}
	return nil
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".curvex-daemon"
	}
	return filepath.Join(home, ".curvex-daemon")
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
