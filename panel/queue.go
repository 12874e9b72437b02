package panel

import "sync"

// commandQueue holds opcodes pending transmission to the MCU. It is
// unbounded: producers are human-driven UI actions and the bridge drains it
// every cycle, so growth beyond a handful of entries means the bus is down
// anyway.
type commandQueue struct {
	mx       sync.Mutex
	commands []byte
}

func (q *commandQueue) push(opcode byte) {
	q.mx.Lock()
	q.commands = append(q.commands, opcode)
	q.mx.Unlock()
}

// drainAll empties the queue and returns its contents in insertion order.
func (q *commandQueue) drainAll() []byte {
	q.mx.Lock()
	defer q.mx.Unlock()
	if len(q.commands) == 0 {
		return nil
	}
	pending := q.commands
	q.commands = nil
	return pending
}
