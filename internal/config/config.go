package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// EthereumConfig holds ledger RPC configuration
type EthereumConfig struct {
	RPCURL string `mapstructure:"rpc_url"`
	// ChainID is the numeric EVM chain id used in EIP-712 domains and
	// transaction signing (e.g. 11155111 for Sepolia).
	ChainID int64 `mapstructure:"chain_id"`
	// DeployBlock is the block the asset contract was deployed at;
	// reconciliation scans start here.
	DeployBlock uint64 `mapstructure:"deploy_block"`
	// ReceiptPollInterval is the delay between receipt polls after a
	// transaction is submitted.
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	// ReceiptTimeout bounds how long a submitted transaction is awaited.
	ReceiptTimeout time.Duration `mapstructure:"receipt_timeout"`
}

// ContractsConfig holds on-chain contract addresses and the operator key
type ContractsConfig struct {
	AssetNFT     string `mapstructure:"asset_nft"`
	PaymentToken string `mapstructure:"payment_token"`
	Forwarder    string `mapstructure:"forwarder"`
	// OperatorKey is the hex-encoded private key of the custodial signer
	// paying gas for all operator-signed writes.
	OperatorKey string `mapstructure:"operator_key"`
	// ShopWallet receives shop purchase payments.
	ShopWallet string `mapstructure:"shop_wallet"`
}

// ReconcileConfig holds reconciliation tuning
type ReconcileConfig struct {
	Cooldown          time.Duration `mapstructure:"cooldown"`
	CooldownRetention time.Duration `mapstructure:"cooldown_retention"`
	BlockChunkSize    uint64        `mapstructure:"block_chunk_size"`
	WorkerPoolSize    int           `mapstructure:"worker_pool_size"`
}

// IPFSConfig holds content-addressable upload configuration
type IPFSConfig struct {
	APIURL  string `mapstructure:"api_url"`
	JWT     string `mapstructure:"jwt"`
	Gateway string `mapstructure:"gateway"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// AllowedOrigins is a comma-separated list of origins permitted by
	// CORS; empty allows all origins (development only).
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Origins splits the comma-separated allowed-origins setting
func (c *ServerConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// AuthConfig holds session token validation configuration
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// APIConfig holds configuration for the marketplace API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Ethereum   EthereumConfig  `mapstructure:"ethereum"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
	Reconcile  ReconcileConfig `mapstructure:"reconcile"`
	IPFS       IPFSConfig      `mapstructure:"ipfs"`
	Auth       AuthConfig      `mapstructure:"auth"`
}

// LoadAPIConfig loads configuration for the marketplace API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("ethereum.chain_id", 11155111)
	v.SetDefault("ethereum.receipt_poll_interval", "3s")
	v.SetDefault("ethereum.receipt_timeout", "3m")
	v.SetDefault("reconcile.cooldown", "5m")
	v.SetDefault("reconcile.cooldown_retention", "1h")
	v.SetDefault("reconcile.block_chunk_size", 10000)
	v.SetDefault("reconcile.worker_pool_size", 4)
	v.SetDefault("ipfs.api_url", "https://api.pinata.cloud")
	v.SetDefault("ipfs.gateway", "https://gateway.pinata.cloud")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}
	if cfg.Ethereum.RPCURL == "" {
		return nil, errors.New("ethereum.rpc_url is required")
	}
	if cfg.Contracts.AssetNFT == "" || cfg.Contracts.PaymentToken == "" || cfg.Contracts.Forwarder == "" {
		return nil, errors.New("contracts.asset_nft, contracts.payment_token and contracts.forwarder are required")
	}
	if cfg.Contracts.OperatorKey == "" {
		return nil, errors.New("contracts.operator_key is required")
	}

	return &cfg, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("MKT_CORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.deploy_block",
		"ethereum.receipt_poll_interval",
		"ethereum.receipt_timeout",
		// Contracts
		"contracts.asset_nft",
		"contracts.payment_token",
		"contracts.forwarder",
		"contracts.operator_key",
		"contracts.shop_wallet",
		// Reconcile
		"reconcile.cooldown",
		"reconcile.cooldown_retention",
		"reconcile.block_chunk_size",
		"reconcile.worker_pool_size",
		// IPFS
		"ipfs.api_url",
		"ipfs.jwt",
		"ipfs.gateway",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.jwt_secret",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
