package optimistic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoveItem(t *testing.T) {
	src := []string{"a", "b", "c", "d"}

	require.Equal(t, []string{"b", "c", "a", "d"}, MoveItem(src, 0, 2))
	require.Equal(t, []string{"d", "a", "b", "c"}, MoveItem(src, 3, 0))
	require.Equal(t, []string{"a", "b", "c", "d"}, MoveItem(src, 1, 1))
	require.Equal(t, []string{"a", "b", "c", "d"}, MoveItem(src, -1, 2))
	require.Equal(t, []string{"a", "b", "c", "d"}, MoveItem(src, 0, 9))

	// El slice original no se toca.
	require.Equal(t, []string{"a", "b", "c", "d"}, src)
}

func TestReplaceRecordSwapsTempRow(t *testing.T) {
	items := []*row{{ID: "a"}, {ID: "temp-7", Note: "local"}, {ID: "b"}}
	server := &row{ID: "real-7", Note: "confirmado"}

	out := ReplaceRecord(items, "temp-7", server, rowID)
	require.Len(t, out, 3)
	require.Same(t, server, out[1], "la fila temporal se sustituye por la del servidor completa")
	require.Equal(t, "temp-7", items[1].ID, "el slice original no se toca")
}

func TestReplaceRecordDropsTempWhenRealAlreadyPresent(t *testing.T) {
	// Un refetch trajo el registro confirmado antes de que el commit
	// corriera: sustituir duplicaría la fila.
	items := []*row{{ID: "real-7", Note: "del refetch"}, {ID: "temp-7"}}
	server := &row{ID: "real-7", Note: "confirmado"}

	out := ReplaceRecord(items, "temp-7", server, rowID)
	require.Len(t, out, 1)
	require.Equal(t, "real-7", out[0].ID)
	require.Equal(t, "del refetch", out[0].Note)
}

func TestRemoveID(t *testing.T) {
	items := []*row{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	out := RemoveID(items, "b", rowID)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "c", out[1].ID)

	require.Len(t, RemoveID(items, "zzz", rowID), 3)
}
