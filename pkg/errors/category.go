package errors

// Category groups error codes into the kinds a caller acts on.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryGit      Category = "git"
	CategoryPlugin   Category = "plugin"
	CategoryTemplate Category = "template"
	CategoryCache    Category = "cache"
	CategoryOutput   Category = "output"
	CategoryInternal Category = "internal"
	CategoryUnknown  Category = "unknown"
)

var categories = map[ErrorCode]Category{
	ErrConfigLoad:       CategoryConfig,
	ErrConfigParse:      CategoryConfig,
	ErrConfigValid:      CategoryConfig,
	ErrInvalidInput:     CategoryConfig,
	ErrGitOperation:     CategoryGit,
	ErrGitRefUnknown:    CategoryGit,
	ErrPluginInvalid:    CategoryPlugin,
	ErrPluginManifest:   CategoryPlugin,
	ErrPluginState:      CategoryPlugin,
	ErrTemplateNotFound: CategoryTemplate,
	ErrTemplateRender:   CategoryTemplate,
	ErrCacheIO:          CategoryCache,
	ErrOutputWrite:      CategoryOutput,
	ErrOutputEscape:     CategoryOutput,
	ErrInternal:         CategoryInternal,
	ErrAlreadyExists:    CategoryInternal,
}

// CategoryOf returns the category of err's outermost ForgeError code.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	if c, ok := categories[GetErrorCode(err)]; ok {
		return c
	}
	return CategoryUnknown
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool { return CategoryOf(err) == CategoryConfig }

// IsGitError reports whether err is a git operation error.
func IsGitError(err error) bool { return CategoryOf(err) == CategoryGit }

// IsPluginError reports whether err is a plugin structure or state error.
func IsPluginError(err error) bool { return CategoryOf(err) == CategoryPlugin }

// IsTemplateError reports whether err is a template lookup or render error.
func IsTemplateError(err error) bool { return CategoryOf(err) == CategoryTemplate }

// IsCacheError reports whether err is a cache filesystem error.
func IsCacheError(err error) bool { return CategoryOf(err) == CategoryCache }
