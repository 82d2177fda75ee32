package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

func TestPgxAccountRepository_ServesReporting(t *testing.T) {
	readers := NewReaders(nil)
	assert.Implements(t, (*portsrepo.PartyAccountReader)(nil), readers.Accounts)
	assert.Implements(t, (*portsrepo.JournalReader)(nil), readers.Journal)
}
