package optimistic

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TempIDPrefix marca los ids asignados localmente antes de que el
// servidor confirme la creación.
const TempIDPrefix = "temp-"

var tempIDClock = func() int64 { return time.Now().UnixNano() }

// NewTempID genera un id temporal único para un registro creado
// optimistamente. El id definitivo lo asigna el servidor; Commit lo
// reemplaza en la colección cacheada.
func NewTempID() string {
	return fmt.Sprintf("%s%d", TempIDPrefix, tempIDClock())
}

// IsTempID indica si id fue asignado localmente.
func IsTempID(id string) bool { return strings.HasPrefix(id, TempIDPrefix) }

// PendingEdit es una edición encolada contra un registro que todavía
// tiene id temporal: el campo editado y su valor quedan retenidos hasta
// que el servidor confirme el id real.
type PendingEdit struct {
	RecordType string
	RecordID   string
	Field      string
	Value      any
	QueuedAt   time.Time
}

// PendingEdits encola ediciones dirigidas a registros con id temporal.
//
// La carrera que resuelve: el usuario crea una fila y edita un campo
// antes de que el POST de creación responda. Mandar el PATCH con el id
// temporal fallaría (el servidor no lo conoce), así que la edición se
// retiene y se re-apunta al id real cuando la creación confirma.
type PendingEdits struct {
	mu    sync.Mutex
	queue map[string][]PendingEdit
}

// NewPendingEdits crea la cola vacía.
func NewPendingEdits() *PendingEdits {
	return &PendingEdits{queue: make(map[string][]PendingEdit)}
}

func pendingKey(recordType, recordID string) string {
	return recordType + keyJoin + recordID
}

const keyJoin = "\x1f"

// Enqueue retiene una edición para (recordType, recordID). Ediciones
// sucesivas del mismo campo se colapsan: gana la última.
func (p *PendingEdits) Enqueue(recordType, recordID, field string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := pendingKey(recordType, recordID)
	for i, e := range p.queue[k] {
		if e.Field == field {
			p.queue[k][i].Value = value
			p.queue[k][i].QueuedAt = time.Now()
			return
		}
	}
	p.queue[k] = append(p.queue[k], PendingEdit{
		RecordType: recordType,
		RecordID:   recordID,
		Field:      field,
		Value:      value,
		QueuedAt:   time.Now(),
	})
}

// Resolve re-apunta las ediciones retenidas de tempID al id definitivo
// y las retorna en orden de encolado, listas para despachar.
func (p *PendingEdits) Resolve(recordType, tempID, realID string) []PendingEdit {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := pendingKey(recordType, tempID)
	edits := p.queue[k]
	delete(p.queue, k)
	for i := range edits {
		edits[i].RecordID = realID
	}
	return edits
}

// Discard descarta las ediciones retenidas de un registro cuya creación
// fue revertida.
func (p *PendingEdits) Discard(recordType, tempID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.queue, pendingKey(recordType, tempID))
}

// Len retorna la cantidad total de ediciones retenidas.
func (p *PendingEdits) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, edits := range p.queue {
		n += len(edits)
	}
	return n
}
