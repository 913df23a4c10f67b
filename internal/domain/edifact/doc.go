// Package edifact implements the trade-document codec for the UN/EDIFACT
// D.01B ORDERS message subset exchanged with trading partners.
//
// Key concepts:
//   - Segment / Message: immutable wire representation of one transmission
//   - Encoder: serializes an Order into ORDERS message text
//   - Decoder: parses ORDERS message text back into a fresh Order
//   - Validator: certifies arbitrary message text and reports every defect
//     it finds as a ValidationErrors set, never aborting at the first one
//   - Order / OrderItem: the document value object the codec exchanges with
//     the owning order service
//
// The codec is pure: it performs no I/O, never logs, and keeps no mutable
// package state beyond the read-only segment grammar, so concurrent encode
// and decode calls need no synchronization.
package edifact
