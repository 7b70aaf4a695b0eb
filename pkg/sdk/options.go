package docsum

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Supported storage drivers.
const (
	driverFirestore = "firestore"
	driverMongo     = "mongo"
	driverRedis     = "redis"
	driverValkey    = "valkey"
)

type clientConfig struct {
	driver string

	// firestore
	projectID       string
	credentialsFile string

	// mongo
	uri      string
	database string

	// redis / valkey
	addrs     []string
	password  string
	keyPrefix string

	apiKey    string
	baseURL   string
	model     string
	completer Completer

	maxSentences int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithFirestore stores documents in Cloud Firestore.
// An empty credentialsFile falls back to application default credentials.
func WithFirestore(projectID, credentialsFile string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverFirestore
		c.projectID = projectID
		c.credentialsFile = credentialsFile
	})
}

// WithMongo stores documents in a MongoDB database. Collections map 1:1.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMongo
		c.uri = uri
		c.database = database
	})
}

// WithRedis stores documents as JSON values in a Redis instance with the JSON module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithValkey stores documents as JSON values in a Valkey instance with the JSON module.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces Redis/Valkey keys. Default: "docsum:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSummarizer configures the OpenAI-compatible chat model used for summaries.
// An empty model selects the default hosted model.
func WithSummarizer(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.model = model
	})
}

// WithSummarizerBaseURL points the summarizer at another OpenAI-compatible endpoint.
// Default: Groq.
func WithSummarizerBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithCompleter plugs in a custom chat-completion backend. Takes precedence over WithSummarizer.
func WithCompleter(cm Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = cm
	})
}

// WithMaxSentences bounds summary length. Default: 3.
func WithMaxSentences(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxSentences = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
