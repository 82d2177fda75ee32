package services

import (
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
)

// Container holds all the services and manages their dependencies
type Container struct {
	Reference  portssvc.ReferenceSvcFacade
	Account    portssvc.AccountSvcFacade
	MarketData portssvc.MarketDataSvcFacade
	Journal    portssvc.JournalSvcFacade
	Trade      portssvc.TradeSvcFacade
	Fact       portssvc.FactSvc
	Reporting  portssvc.ReportingService
	Audit      portssvc.AuditSvc
}

// ContainerOption is a functional option for configuring the container
type ContainerOption func(*containerConfig)

type containerConfig struct {
	publisher portsrepo.EntryPublisher
}

// WithEntryPublisher streams every entry committed by the journal and trade services.
func WithEntryPublisher(p portsrepo.EntryPublisher) ContainerOption {
	return func(c *containerConfig) {
		c.publisher = p
	}
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(repos *portsrepo.RepositoryProvider, options ...ContainerOption) *Container {
	cfg := &containerConfig{}
	for _, option := range options {
		option(cfg)
	}

	container := &Container{}

	// Market data first since reference loading records catalog quotes through it
	container.MarketData = NewMarketDataService(repos.MarketDataRepo)
	container.Reference = NewReferenceService(repos.ReferenceRepo, container.MarketData)
	container.Account = NewAccountService(repos.AccountRepo, container.Reference)

	var journalOpts []JournalServiceOption
	var tradeOpts []TradeServiceOption
	if cfg.publisher != nil {
		journalOpts = append(journalOpts, WithJournalPublisher(cfg.publisher))
		tradeOpts = append(tradeOpts, WithTradePublisher(cfg.publisher))
	}
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, container.Reference, journalOpts...)
	container.Trade = NewTradeService(
		repos.TradeRepo,
		container.Account,
		container.Reference,
		container.MarketData,
		container.Journal,
		tradeOpts...,
	)

	container.Fact = NewFactService(repos, container.MarketData)
	container.Reporting = NewReportingService(
		repos.AccountRepo,
		repos.JournalRepo,
		WithReportingFacts(repos.FactRepo),
		WithReportingHoldings(repos.TradeRepo, container.MarketData),
	)
	container.Audit = NewAuditService(repos.Snapshotter)

	return container
}
