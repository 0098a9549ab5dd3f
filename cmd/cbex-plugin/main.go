package main

import (
	"context"
	"fmt"

	_ "github.com/redpanda-data/benthos/v4/public/components/io"
	_ "github.com/redpanda-data/benthos/v4/public/components/pure"
	"github.com/redpanda-data/benthos/v4/public/service"

	"github.com/twinfer/cbex-plugin/pkg/cbex"
)

// ExchangeProcessor is a Benthos processor that converts between
// 1CClientBankExchange bank files and structured JSON messages.
type ExchangeProcessor struct {
	config     ExchangeConfig
	parser     *cbex.Parser
	logger     *service.Logger
	mParsed    *service.MetricCounter
	mEncoded   *service.MetricCounter
	mErrors    *service.MetricCounter
	mDocuments *service.MetricCounter
}

// ExchangeConfig contains configuration parameters for the exchange processor.
type ExchangeConfig struct {
	IsParser bool   `json:"is_parser" yaml:"is_parser"`
	Charset  string `json:"charset" yaml:"charset"`
	Validate bool   `json:"validate" yaml:"validate"`
}

func init() {
	// Register the processor with Benthos
	err := service.RegisterProcessor(
		"client_bank_exchange",
		exchangeProcessorConfig(),
		func(conf *service.ParsedConfig, mgr *service.Resources) (service.Processor, error) {
			return newExchangeProcessorFromConfig(conf, mgr)
		},
	)
	if err != nil {
		panic(err)
	}
}

// exchangeProcessorConfig returns a config spec for a client_bank_exchange processor.
func exchangeProcessorConfig() *service.ConfigSpec {
	return service.NewConfigSpec().
		Summary("Parses or produces bank exchange files in the 1CClientBankExchange format.").
		Description("This processor converts 1CClientBankExchange statement files into structured JSON, or structured JSON payment orders back into exchange file bytes.").
		Field(service.NewBoolField("is_parser").
			Description("Whether this processor parses exchange files to JSON (true) or encodes JSON to exchange files (false).").
			Default(true)).
		Field(service.NewStringField("charset").
			Description("Byte encoding of the exchange files (Windows, DOS, KOI8 or utf-8).").
			Default("Windows")).
		Field(service.NewBoolField("validate").
			Description("Whether encoding enforces the fields required when sending to a bank.").
			Default(true)).
		Version("0.1.0")
}

// newExchangeProcessorFromConfig creates a new ExchangeProcessor from a parsed config.
func newExchangeProcessorFromConfig(conf *service.ParsedConfig, mgr *service.Resources) (*ExchangeProcessor, error) {
	isParser, err := conf.FieldBool("is_parser")
	if err != nil {
		return nil, err
	}

	charsetName, err := conf.FieldString("charset")
	if err != nil {
		return nil, err
	}

	validate, err := conf.FieldBool("validate")
	if err != nil {
		return nil, err
	}

	config := ExchangeConfig{
		IsParser: isParser,
		Charset:  charsetName,
		Validate: validate,
	}

	logger := mgr.Logger()
	metrics := mgr.Metrics()

	return &ExchangeProcessor{
		config: config,
		parser: cbex.NewParser(
			cbex.WithCharset(charsetName),
			cbex.WithValidation(validate),
		),
		logger:     logger,
		mParsed:    metrics.NewCounter("cbex_parsed_messages"),
		mEncoded:   metrics.NewCounter("cbex_encoded_messages"),
		mErrors:    metrics.NewCounter("cbex_processing_errors"),
		mDocuments: metrics.NewCounter("cbex_documents"),
	}, nil
}

// Process converts one message between exchange file bytes and JSON.
func (e *ExchangeProcessor) Process(ctx context.Context, msg *service.Message) (service.MessageBatch, error) {
	if e.config.IsParser {
		return e.parseStatement(msg)
	}
	return e.encodeStatement(msg)
}

// parseStatement parses exchange file bytes into a structured message.
func (e *ExchangeProcessor) parseStatement(msg *service.Message) (service.MessageBatch, error) {
	e.logger.Debug("Parsing 1CClientBankExchange file")

	data, err := msg.AsBytes()
	if err != nil {
		e.logger.Errorf("Failed to get file bytes from message: %v", err)
		e.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to get file bytes from message: %w", err))
		return service.MessageBatch{msg}, nil
	}

	if len(data) == 0 {
		e.logger.Warn("Empty exchange file provided")
		e.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("empty exchange file provided"))
		return service.MessageBatch{msg}, nil
	}

	st, err := e.parser.ParseStatement(data)
	if err != nil {
		e.logger.Errorf("Failed to parse exchange file of size %d bytes: %v", len(data), err)
		e.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to parse exchange file of size %d bytes: %w", len(data), err))
		return service.MessageBatch{msg}, nil
	}

	e.logger.Debugf("Successfully parsed exchange file with %d documents", st.Count())
	e.mParsed.Incr(1)
	e.mDocuments.Incr(int64(st.Count()))

	// Create new message with parsed data
	newMsg := service.NewMessage(nil)
	newMsg.SetStructured(cbex.StatementToMap(st))

	// Copy metadata from original message
	msg.MetaWalk(func(key, value string) error {
		newMsg.MetaSet(key, value)
		return nil
	})

	return service.MessageBatch{newMsg}, nil
}

// encodeStatement renders a structured message as exchange file bytes.
func (e *ExchangeProcessor) encodeStatement(msg *service.Message) (service.MessageBatch, error) {
	e.logger.Debug("Encoding structured data as a 1CClientBankExchange file")

	structData, err := msg.AsStructured()
	if err != nil {
		e.logger.Errorf("Failed to get structured data from message: %v", err)
		e.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to get structured data from message: %w", err))
		return service.MessageBatch{msg}, nil
	}

	m, ok := structData.(map[string]any)
	if !ok {
		e.logger.Errorf("Expected a statement object, got %T", structData)
		e.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("expected a statement object, got %T", structData))
		return service.MessageBatch{msg}, nil
	}

	st, err := cbex.StatementFromMap(m)
	if err != nil {
		e.logger.Errorf("Failed to build statement from message: %v", err)
		e.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to build statement from message: %w", err))
		return service.MessageBatch{msg}, nil
	}

	data, err := e.parser.EncodeStatement(st)
	if err != nil {
		e.logger.Errorf("Failed to encode statement: %v", err)
		e.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to encode statement: %w", err))
		return service.MessageBatch{msg}, nil
	}

	e.logger.Debugf("Successfully encoded statement to %d bytes", len(data))
	e.mEncoded.Incr(1)
	e.mDocuments.Incr(int64(st.Count()))

	newMsg := service.NewMessage(data)

	// Copy metadata from original message
	msg.MetaWalk(func(key, value string) error {
		newMsg.MetaSet(key, value)
		return nil
	})

	return service.MessageBatch{newMsg}, nil
}

// Close the processor resources
func (e *ExchangeProcessor) Close(ctx context.Context) error {
	return nil
}

func main() {
	service.RunCLI(context.Background())
}
