package provider

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/config"
	"github.com/customeros/sleeper/internal/logger"
)

// ConsoleProvider reads one line per check. Useful for trying out actions by hand.
type ConsoleProvider struct {
	cfg    config.Common
	parser interfaces.Parser
	log    logger.Logger

	mu     sync.Mutex
	reader *bufio.Reader
}

func NewConsoleProvider(cfg config.Common, in io.Reader, parser interfaces.Parser, log logger.Logger) *ConsoleProvider {
	return &ConsoleProvider{
		cfg:    cfg,
		parser: parser,
		log:    log,
		reader: bufio.NewReader(in),
	}
}

func (p *ConsoleProvider) Name() string {
	return NameConsole
}

// Check blocks until a full line (or EOF) is read. EOF means not found.
func (p *ConsoleProvider) Check(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cfg.Verbose {
		p.log.Info("Waiting for a line of input...")
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		if err != io.EOF {
			p.log.Warnf("Could not read input: %v", err)
		}
		return false, nil
	}
	line = strings.TrimRight(line, "\r\n")
	return p.parser.PhraseExists(p.cfg.Keyphrase, line), nil
}
