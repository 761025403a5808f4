package provider

import (
	"context"
	"sync"

	"github.com/customeros/sleeper/internal/config"
	"github.com/customeros/sleeper/internal/logger"
)

// POP3Provider is not implemented yet and never reports a match.
type POP3Provider struct {
	cfg  config.POP3Config
	log  logger.Logger
	once sync.Once
}

func NewPOP3Provider(cfg config.POP3Config, log logger.Logger) *POP3Provider {
	return &POP3Provider{cfg: cfg, log: log}
}

func (p *POP3Provider) Name() string {
	return NamePOP3
}

func (p *POP3Provider) Check(context.Context) (bool, error) {
	p.once.Do(func() {
		p.log.Warnf("POP3 is not yet supported, %s will never be checked", p.cfg.Server)
	})
	return false, nil
}
