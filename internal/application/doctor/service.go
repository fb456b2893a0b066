package doctor

import (
	"context"
	"fmt"
	"time"

	appconfig "github.com/doeshing/rxdbg/internal/application/config"
	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/ports"
)

// probeKey is written and read back by the storage check.
const probeKey = "rxdbg.doctor.probe"

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Matcher        ports.Matcher
	Storage        ports.KeyValueStore
	History        ports.HistoryRepository
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s", cfg.ConfigFormatVersion)))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config values", err.Error()))
	} else {
		checks = append(checks, ok("Config values", "valid"))
	}

	checks = append(checks, engineCheck(s.Matcher))
	checks = append(checks, storageCheck(s.Storage, cfg.History))

	if s.History != nil {
		checks = append(checks, ok("History", fmt.Sprintf("%d entries", len(s.History.GetHistory()))))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func engineCheck(m ports.Matcher) domain.HealthCheck {
	if m == nil {
		return warn("Regex engine", "matcher not initialized")
	}
	res := m.Analyze(`(\w+)@(\w+)`, "probe user@host")
	if res.Failed() {
		return fail("Regex engine", fmt.Sprintf("%s: %s", m.Name(), res.Error))
	}
	if len(res.Matches) != 1 || res.Matches[0].Text != "user@host" {
		return fail("Regex engine", fmt.Sprintf("%s: unexpected probe result", m.Name()))
	}
	return ok("Regex engine", m.Name())
}

func storageCheck(kv ports.KeyValueStore, settings domain.HistorySettings) domain.HealthCheck {
	if !settings.Enabled {
		return warn("History storage", "recording disabled")
	}
	if kv == nil {
		return warn("History storage", "storage not initialized")
	}
	value := time.Now().UTC().Format(time.RFC3339Nano)
	if err := kv.Set(probeKey, value); err != nil {
		return fail("History storage", fmt.Sprintf("%s write failed: %v", settings.Backend, err))
	}
	got, found, err := kv.Get(probeKey)
	if err != nil {
		return fail("History storage", fmt.Sprintf("%s read failed: %v", settings.Backend, err))
	}
	if !found || got != value {
		return fail("History storage", fmt.Sprintf("%s read back a different value", settings.Backend))
	}
	return ok("History storage", settings.Backend)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
