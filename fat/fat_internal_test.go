package fat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hedlund/blockfs/blockdev"
	"github.com/hedlund/blockfs/blockfstest"
)

func newTestDevice(t *testing.T) *blockdev.Device {
	t.Helper()
	return blockdev.New(blockfstest.NewMemStorage(blockdev.ImageSize))
}

func TestNewFormattedRootAndFatAreEOF(t *testing.T) {
	table := NewFormatted()
	if got := table.Get(RootBlock); got.State != EOF {
		t.Errorf("root block state = %v, want EOF", got.State)
	}
	if got := table.Get(FATBlock); got.State != EOF {
		t.Errorf("fat block state = %v, want EOF", got.State)
	}
	if free := table.CountFree(); free != blockdev.BlockCount-2 {
		t.Errorf("CountFree() = %d, want %d", free, blockdev.BlockCount-2)
	}
}

func TestLoadFlushRoundTrip(t *testing.T) {
	dev := newTestDevice(t)
	table := NewFormatted()
	if err := table.AllocateChain(2, 0); err == nil {
		t.Fatalf("AllocateChain on a Free block should fail, not EOF")
	}

	head, ok := table.FindFirstFree()
	if !ok {
		t.Fatal("expected a free block")
	}
	table.Set(head, Entry{State: EOF})
	if err := table.AllocateChain(head, 3); err != nil {
		t.Fatalf("AllocateChain: %v", err)
	}

	if err := table.Flush(dev); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	reloaded, err := Load(dev)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(table, reloaded, cmp.AllowUnexported(Table{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFindFirstFreeIsLowestIndex(t *testing.T) {
	table := NewFormatted()
	table.Set(2, Entry{State: EOF})
	table.Set(3, Entry{State: EOF})
	got, ok := table.FindFirstFree()
	if !ok || got != 4 {
		t.Errorf("FindFirstFree() = (%d,%v), want (4,true)", got, ok)
	}
}

func TestAllocateChainLinksAscendingAndSetsEOF(t *testing.T) {
	table := NewFormatted()
	head, _ := table.FindFirstFree()
	table.Set(head, Entry{State: EOF})
	if err := table.AllocateChain(head, 3); err != nil {
		t.Fatalf("AllocateChain: %v", err)
	}
	chain := table.Walk(head)
	if len(chain) != 4 {
		t.Fatalf("Walk() returned %d blocks, want 4: %v", len(chain), chain)
	}
	for i := 1; i < len(chain); i++ {
		if chain[i] <= chain[i-1] {
			t.Errorf("chain not ascending at %d: %v", i, chain)
		}
	}
	if table.Get(chain[len(chain)-1]).State != EOF {
		t.Errorf("last block in chain is not EOF")
	}
}

func TestFreeChainRestoresFreeCount(t *testing.T) {
	table := NewFormatted()
	before := table.CountFree()
	head, _ := table.FindFirstFree()
	table.Set(head, Entry{State: EOF})
	if err := table.AllocateChain(head, 4); err != nil {
		t.Fatalf("AllocateChain: %v", err)
	}
	table.FreeChain(head)
	if after := table.CountFree(); after != before {
		t.Errorf("CountFree() after FreeChain = %d, want %d", after, before)
	}
}

func TestAllocateChainNoFreeBlock(t *testing.T) {
	table := NewFormatted()
	head, _ := table.FindFirstFree()
	table.Set(head, Entry{State: EOF})
	// consume every other free block first
	for {
		b, ok := table.FindFirstFree()
		if !ok {
			break
		}
		table.Set(b, Entry{State: EOF})
	}
	if err := table.AllocateChain(head, 1); err != ErrNoFreeBlock {
		t.Errorf("AllocateChain() error = %v, want ErrNoFreeBlock", err)
	}
}
