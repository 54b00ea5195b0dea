package drive

// Config holds Drive metadata resolver configuration.
type Config struct {
	// Fields is the partial response selector for files.get.
	Fields string
	// MaxFiles caps how many files of one batch are looked up.
	MaxFiles int
}

// DefaultFields are the attributes the resolver fills in.
const DefaultFields = "id,name,mimeType,size,modifiedTime,iconLink,webViewLink"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Fields:   DefaultFields,
		MaxFiles: 50,
	}
}
