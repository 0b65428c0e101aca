package optimistic

// Helpers de colección para los facades: todas retornan slices nuevos,
// nunca mutan el argumento (contrato de Mutation.Apply).

// MoveItem retorna una copia de items con el elemento en from movido a
// to. Índices fuera de rango retornan la copia sin cambios.
func MoveItem[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := make([]T, 0, len(items))
	rest = append(rest, out[:to]...)
	rest = append(rest, item)
	rest = append(rest, out[to:]...)
	return rest
}

// ReplaceRecord retorna una copia de items con la fila tempID sustituida
// por rec (la versión confirmada por el servidor, con id definitivo y
// campos calculados). Si el id definitivo ya está presente (un refetch
// se adelantó al commit), la fila temporal se descarta en vez de
// duplicarse.
func ReplaceRecord[T any](items []T, tempID string, rec T, id func(T) string) []T {
	exists := false
	for _, it := range items {
		if id(it) == id(rec) {
			exists = true
			break
		}
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if id(it) == tempID {
			if exists {
				continue
			}
			out = append(out, rec)
			continue
		}
		out = append(out, it)
	}
	return out
}

// RemoveID retorna una copia de items sin el registro id.
func RemoveID[T any](items []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if id(it) == target {
			continue
		}
		out = append(out, it)
	}
	return out
}
