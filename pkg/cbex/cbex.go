// Package cbex provides a high-level API for reading and writing bank
// exchange files in the 1CClientBankExchange format.
//
// This package wraps the core codec in pkg/clientbank and handles the
// byte-level concerns around it: legacy charset conversion (Windows-1251
// and friends) and conversion between statements and JSON for stream
// processing.
//
// Basic usage:
//
//	// Parse raw exchange file bytes into a statement
//	st, err := cbex.ParseStatement(fileBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Convert exchange file bytes to JSON
//	jsonData, err := cbex.StatementToJSON(fileBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Convert JSON back to exchange file bytes
//	fileBytes, err := cbex.EncodeStatementJSON(jsonData)
//	if err != nil {
//	    log.Fatal(err)
//	}
package cbex

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/twinfer/cbex-plugin/internal/charset"
	"github.com/twinfer/cbex-plugin/pkg/clientbank"
)

// Parser converts between exchange file bytes, statements and JSON.
type Parser struct {
	logger  *slog.Logger
	options options
}

// options holds configuration for the parser
type options struct {
	logger   *slog.Logger
	charset  string
	validate bool
	debug    bool
}

// Option is a function that configures parser options
type Option func(*options)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCharset sets the byte encoding used when no header encoding is
// available (defaults to Windows, i.e. Windows-1251).
func WithCharset(name string) Option {
	return func(o *options) {
		o.charset = name
	}
}

// WithValidation controls whether encoding enforces to-bank requiredness
// (enabled by default).
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithDebugMode enables debug logging
func WithDebugMode(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// defaultOptions returns the default configuration
func defaultOptions() options {
	return options{
		logger:   slog.Default(),
		charset:  clientbank.DefaultEncoding,
		validate: true,
		debug:    false,
	}
}

// Global parser instance for convenience functions
var globalParser *Parser
var globalParserOnce sync.Once

// getGlobalParser returns a singleton parser instance
func getGlobalParser() *Parser {
	globalParserOnce.Do(func() {
		globalParser = NewParser()
	})
	return globalParser
}

// NewParser creates a new parser instance with the given options
func NewParser(opts ...Option) *Parser {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if options.debug {
		options.logger = options.logger.With("debug", true)
	}

	return &Parser{
		logger:  options.logger,
		options: options,
	}
}

// ParseStatement parses raw exchange file bytes into a statement
func ParseStatement(data []byte, opts ...Option) (*clientbank.StatementFile, error) {
	return getGlobalParser().ParseStatement(data, opts...)
}

// ParseStatementText parses exchange file text that is already a Go string
func ParseStatementText(text string, opts ...Option) (*clientbank.StatementFile, error) {
	return getGlobalParser().ParseStatementText(text, opts...)
}

// EncodeStatement renders a statement to exchange file bytes
func EncodeStatement(st *clientbank.StatementFile, opts ...Option) ([]byte, error) {
	return getGlobalParser().EncodeStatement(st, opts...)
}

// StatementToJSON parses exchange file bytes and converts them to JSON
func StatementToJSON(data []byte, opts ...Option) ([]byte, error) {
	return getGlobalParser().StatementToJSON(data, opts...)
}

// StatementFromJSON converts JSON data back into a statement
func StatementFromJSON(jsonData []byte, opts ...Option) (*clientbank.StatementFile, error) {
	return getGlobalParser().StatementFromJSON(jsonData, opts...)
}

// EncodeStatementJSON converts JSON data back to exchange file bytes
func EncodeStatementJSON(jsonData []byte, opts ...Option) ([]byte, error) {
	return getGlobalParser().EncodeStatementJSON(jsonData, opts...)
}

// ParseStatement parses raw exchange file bytes into a statement. Bytes
// are first decoded with the configured charset, then run through the
// statement decoder.
func (p *Parser) ParseStatement(data []byte, opts ...Option) (*clientbank.StatementFile, error) {
	options := p.applyOptions(opts)

	text, err := charset.Decode(options.charset, data)
	if err != nil {
		return nil, fmt.Errorf("decoding file bytes: %w", err)
	}
	return p.ParseStatementText(text, opts...)
}

// ParseStatementText parses exchange file text that is already a Go string.
func (p *Parser) ParseStatementText(text string, opts ...Option) (*clientbank.StatementFile, error) {
	st, err := clientbank.DecodeStatement(text)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	p.logger.Debug("parsed exchange file",
		"documents", st.Count(),
		"has_balance", st.Balance != nil,
		"encoding", st.Header.GetString("encoding"))
	return st, nil
}

// EncodeStatement renders a statement to exchange file bytes. The
// header's own Кодировка field wins over the configured charset so the
// produced bytes match what the file claims about itself.
func (p *Parser) EncodeStatement(st *clientbank.StatementFile, opts ...Option) ([]byte, error) {
	options := p.applyOptions(opts)

	text, err := st.Encode(options.validate)
	if err != nil {
		return nil, fmt.Errorf("encoding statement: %w", err)
	}

	name := options.charset
	if st.Header != nil {
		if declared := st.Header.GetString("encoding"); declared != "" {
			name = declared
		}
	}

	data, err := charset.Encode(name, text)
	if err != nil {
		return nil, fmt.Errorf("encoding file bytes: %w", err)
	}

	p.logger.Debug("encoded exchange file", "documents", st.Count(), "charset", name, "bytes", len(data))
	return data, nil
}

// StatementToJSON parses exchange file bytes and converts them to JSON.
func (p *Parser) StatementToJSON(data []byte, opts ...Option) ([]byte, error) {
	st, err := p.ParseStatement(data, opts...)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.MarshalIndent(StatementToMap(st), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling to JSON: %w", err)
	}
	return jsonData, nil
}

// StatementFromJSON converts JSON data back into a statement.
func (p *Parser) StatementFromJSON(jsonData []byte, opts ...Option) (*clientbank.StatementFile, error) {
	var m map[string]any
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling JSON: %w", err)
	}

	st, err := StatementFromMap(m)
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}
	return st, nil
}

// EncodeStatementJSON converts JSON data back to exchange file bytes.
func (p *Parser) EncodeStatementJSON(jsonData []byte, opts ...Option) ([]byte, error) {
	st, err := p.StatementFromJSON(jsonData, opts...)
	if err != nil {
		return nil, err
	}
	return p.EncodeStatement(st, opts...)
}

// applyOptions layers per-call options over the parser's configuration.
func (p *Parser) applyOptions(opts []Option) options {
	options := p.options
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
