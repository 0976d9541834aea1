// Package metadata defines the extraction document attached to classified
// entries and the codec used to serialize, parse, and query it.
//
// The document is a single JSON object keyed by family name. Keys are only
// present when a family produced at least one finding, so the common case
// (plain text, nothing extracted) serializes to an empty string rather than
// "{}". The wire format is deliberately schema-light JSON: the store treats
// it as an opaque column and downstream consumers go through this package.
package metadata

// Document is the per-entry extraction payload.
// Field order mirrors the fixed family order used by ExtractAll.
type Document struct {
	Emails        []Email        `json:"emails,omitempty"`
	URLs          []URL          `json:"urls,omitempty"`
	PhoneNumbers  []PhoneNumber  `json:"phoneNumbers,omitempty"`
	IPAddresses   []IPAddress    `json:"ipAddresses,omitempty"`
	UUIDs         []UUID         `json:"uuids,omitempty"`
	Hashes        []Hash         `json:"hashes,omitempty"`
	APIKeys       []APIKey       `json:"apiKeys,omitempty"`
	JWTs          []JWT          `json:"jwt,omitempty"`
	Env           *Env           `json:"env,omitempty"`
	FilePaths     []FilePath     `json:"filePaths,omitempty"`
	ShellCommands []ShellCommand `json:"shellCommands,omitempty"`
	Code          []CodeHint     `json:"code,omitempty"`
}

// Email is a single detected email address.
type Email struct {
	Address string `json:"address"`
	Domain  string `json:"domain,omitempty"`
}

// URL is a single detected URL with its domain categorization.
type URL struct {
	URL      string `json:"url"`
	Domain   string `json:"domain,omitempty"`
	Category string `json:"category,omitempty"`
}

// PhoneNumber is a single detected phone number.
type PhoneNumber struct {
	Number string `json:"number"`
	Digits string `json:"digits,omitempty"`
}

// IPAddress is a single detected IP literal.
type IPAddress struct {
	Address    string `json:"address"`
	Version    int    `json:"version"`
	IsPrivate  bool   `json:"isPrivate"`
	IsLoopback bool   `json:"isLoopback"`
}

// UUID is a single detected UUID with version and variant.
type UUID struct {
	Value   string `json:"value"`
	Version int    `json:"version,omitempty"`
	Variant string `json:"variant,omitempty"`
}

// Hash is a hex digest with its inferred algorithm.
type Hash struct {
	Value     string `json:"value"`
	Algorithm string `json:"algorithm"`
	Bits      int    `json:"bits"`
}

// APIKey is a provider-tagged secret token.
type APIKey struct {
	Value    string `json:"value"`
	Provider string `json:"provider"`
}

// JWT holds the standard claims parsed from a JSON Web Token.
type JWT struct {
	Token     string `json:"token"`
	Subject   string `json:"subject,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	IssuedAt  int64  `json:"issuedAt,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
	IsExpired bool   `json:"isExpired"`
}

// Env holds environment-variable assignments found in the content.
// Unlike the other families it is a single object, not a list.
type Env struct {
	IsBlock bool     `json:"isBlock"`
	Vars    []EnvVar `json:"vars"`
}

// EnvVar is one KEY=VALUE assignment, quotes stripped.
type EnvVar struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	IsExported bool   `json:"isExported,omitempty"`
}

// FilePath is a detected filesystem path.
type FilePath struct {
	Path      string `json:"path"`
	Filename  string `json:"filename,omitempty"`
	Extension string `json:"extension,omitempty"`
	Exists    bool   `json:"exists"`
}

// ShellCommand is a detected shell invocation.
type ShellCommand struct {
	Command string `json:"command"`
	Binary  string `json:"binary,omitempty"`
}

// CodeHint is a detected programming-language hint.
type CodeHint struct {
	Language string `json:"language"`
}

// IsEmpty reports whether the document carries no findings at all.
func (d *Document) IsEmpty() bool {
	if d == nil {
		return true
	}
	return len(d.Emails) == 0 && len(d.URLs) == 0 && len(d.PhoneNumbers) == 0 &&
		len(d.IPAddresses) == 0 && len(d.UUIDs) == 0 && len(d.Hashes) == 0 &&
		len(d.APIKeys) == 0 && len(d.JWTs) == 0 && d.Env == nil &&
		len(d.FilePaths) == 0 && len(d.ShellCommands) == 0 && len(d.Code) == 0
}
