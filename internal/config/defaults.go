package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "~/.config/diary/diary.log"

	DefaultDiaryRoot      = "~/.local/share/diary"
	DefaultDiaryDatabase  = "diary.db"
	DefaultDiaryWorkspace = "workspace"

	DefaultCategoryPrefix    = "["
	DefaultCategorySuffix    = "]"
	DefaultSubcategoryPrefix = "[["
	DefaultSubcategorySuffix = "]]"
	DefaultSeparator         = ";"
	DefaultStrict            = false

	DefaultEncryptionEnabled     = false
	DefaultEncryptionPasswordEnv = "DIARY_PASSWORD"
	DefaultEncryptionIterations  = 100000
	MinEncryptionIterations      = 10000

	DefaultEditorCommand = ""

	DefaultWatchDebounceMs    = 500
	DefaultWatchDeleteGraceMs = 2000

	DefaultMetricsListen             = ""
	DefaultMetricsCollectionInterval = 15 // seconds
)

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Diary: DiaryConfig{
			Root:      DefaultDiaryRoot,
			Database:  DefaultDiaryDatabase,
			Workspace: DefaultDiaryWorkspace,
		},
		Format: FormatConfig{
			CategoryPrefix:    DefaultCategoryPrefix,
			CategorySuffix:    DefaultCategorySuffix,
			SubcategoryPrefix: DefaultSubcategoryPrefix,
			SubcategorySuffix: DefaultSubcategorySuffix,
			Separator:         DefaultSeparator,
			Strict:            DefaultStrict,
		},
		Encryption: EncryptionConfig{
			Enabled:     DefaultEncryptionEnabled,
			PasswordEnv: DefaultEncryptionPasswordEnv,
			Iterations:  DefaultEncryptionIterations,
		},
		Editor: EditorConfig{
			Command: DefaultEditorCommand,
		},
		Watch: WatchConfig{
			DebounceMs:    DefaultWatchDebounceMs,
			DeleteGraceMs: DefaultWatchDeleteGraceMs,
		},
		Metrics: MetricsConfig{
			Listen:             DefaultMetricsListen,
			CollectionInterval: DefaultMetricsCollectionInterval,
		},
	}
}

// setViperDefaults registers all default configuration values with a viper
// instance. Called before reading config files.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)

	v.SetDefault("diary.root", DefaultDiaryRoot)
	v.SetDefault("diary.database", DefaultDiaryDatabase)
	v.SetDefault("diary.workspace", DefaultDiaryWorkspace)

	v.SetDefault("format.category_prefix", DefaultCategoryPrefix)
	v.SetDefault("format.category_suffix", DefaultCategorySuffix)
	v.SetDefault("format.subcategory_prefix", DefaultSubcategoryPrefix)
	v.SetDefault("format.subcategory_suffix", DefaultSubcategorySuffix)
	v.SetDefault("format.separator", DefaultSeparator)
	v.SetDefault("format.strict", DefaultStrict)

	v.SetDefault("encryption.enabled", DefaultEncryptionEnabled)
	v.SetDefault("encryption.password_env", DefaultEncryptionPasswordEnv)
	v.SetDefault("encryption.iterations", DefaultEncryptionIterations)

	v.SetDefault("editor.command", DefaultEditorCommand)

	v.SetDefault("watch.debounce_ms", DefaultWatchDebounceMs)
	v.SetDefault("watch.delete_grace_ms", DefaultWatchDeleteGraceMs)

	v.SetDefault("metrics.listen", DefaultMetricsListen)
	v.SetDefault("metrics.collection_interval", DefaultMetricsCollectionInterval)
}
