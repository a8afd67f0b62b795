package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultQueueAlias es la entrada de NamedQueues que se usa cuando no se indica cola
const DefaultQueueAlias = "__default__"

// NamedQueues asocia alias legibles a identificadores de cola de impresión
type NamedQueues map[string]string

// UnmarshalJSON acepta identificadores numéricos o de texto
func (q *NamedQueues) UnmarshalJSON(data []byte) error {
	var raw map[string]ID
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(NamedQueues, len(raw))
	for alias, id := range raw {
		out[alias] = string(id)
	}
	*q = out
	return nil
}

// ParseNamedQueues lee un objeto JSON {"alias": id}. Un texto vacío equivale a ninguna cola.
func ParseNamedQueues(raw string) (NamedQueues, error) {
	if strings.TrimSpace(raw) == "" {
		return NamedQueues{}, nil
	}
	var q NamedQueues
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("error parsing named queues: %w", err)
	}
	return q, nil
}

// ResolveQueue determina la cola de una operación. Un alias conocido se
// traduce; cualquier otro valor no vacío se usa tal cual. Sin valor se usa la
// cola por defecto del cliente y luego la entrada __default__.
func (c *Client) ResolveQueue(qid string) (string, error) {
	if qid != "" {
		if id, ok := c.queues[qid]; ok {
			return id, nil
		}
		return qid, nil
	}
	if c.defaultQueue != "" {
		return c.defaultQueue, nil
	}
	if id, ok := c.queues[DefaultQueueAlias]; ok && id != "" {
		return id, nil
	}
	return "", ErrMissingQueueID
}
