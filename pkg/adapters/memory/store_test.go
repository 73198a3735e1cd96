package memory_test

import (
	"testing"

	"github.com/civicscribe/intake/pkg/adapters/memory"
	"github.com/civicscribe/intake/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}
