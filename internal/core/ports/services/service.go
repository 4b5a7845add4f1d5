package services

// ServiceContainer holds instances of all the application services.
// It is shared by the HTTP handlers and the command-line tool.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Backfill  BackfillSvc
	Sync      SyncSvc
	Ledger    LedgerQuerySvc
	Reporting ReportingService
}
