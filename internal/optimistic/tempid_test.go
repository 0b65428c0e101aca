package optimistic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTempID(t *testing.T) {
	orig := tempIDClock
	defer func() { tempIDClock = orig }()
	tempIDClock = func() int64 { return 1756600000000000000 }

	require.Equal(t, "temp-1756600000000000000", NewTempID())
	require.True(t, IsTempID(NewTempID()))
	require.False(t, IsTempID("0c9af7df-2c18-4a0e-9f3c-1c1a0a1b2c3d"))
	require.False(t, IsTempID(""))
}

func TestPendingEditsEnqueueCollapsesSameField(t *testing.T) {
	p := NewPendingEdits()
	p.Enqueue("vitals", "temp-1", "temperature", 36.5)
	p.Enqueue("vitals", "temp-1", "pulse", 72)
	p.Enqueue("vitals", "temp-1", "temperature", 37.2)
	require.Equal(t, 2, p.Len())

	edits := p.Resolve("vitals", "temp-1", "real-1")
	require.Len(t, edits, 2)
	// El orden de encolado se conserva; el valor colapsado es el último.
	require.Equal(t, "temperature", edits[0].Field)
	require.Equal(t, 37.2, edits[0].Value)
	require.Equal(t, "pulse", edits[1].Field)
	for _, e := range edits {
		require.Equal(t, "real-1", e.RecordID)
	}
	require.Equal(t, 0, p.Len())
}

func TestPendingEditsScopedByRecordTypeAndID(t *testing.T) {
	p := NewPendingEdits()
	p.Enqueue("vitals", "temp-1", "pulse", 70)
	p.Enqueue("meals", "temp-1", "amount", "多")
	p.Enqueue("vitals", "temp-2", "pulse", 80)

	edits := p.Resolve("vitals", "temp-1", "v-1")
	require.Len(t, edits, 1)
	require.Equal(t, 2, p.Len(), "otras colas no se tocan")

	require.Empty(t, p.Resolve("vitals", "temp-1", "v-1"), "resolver dos veces retorna vacío")
}

func TestPendingEditsDiscard(t *testing.T) {
	p := NewPendingEdits()
	p.Enqueue("care-notes", "temp-9", "content", "nota")
	p.Discard("care-notes", "temp-9")
	require.Equal(t, 0, p.Len())
	require.Empty(t, p.Resolve("care-notes", "temp-9", "cn-1"))
}
