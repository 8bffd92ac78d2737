// Package eventhub carries tracking-system events to registered handlers.
//
// Handlers subscribe with an expression of key=value terms joined by "and",
// where keys are dotted paths into the event (topic, source.user.username,
// data.<field>). Hub dispatches in-process; Client connects a Hub to the
// remote event hub over a websocket and sends handler results back as reply
// events.
package eventhub
