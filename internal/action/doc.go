// Package action wires the viewer action onto an event registry.
//
// Two subscriptions are registered for the configured user: discovery, which
// answers with a single menu entry for viewable selections, and launch. A
// launch event without values answers with a form listing the selection's
// components; once the user picks one, the component path is expanded to its
// frames on disk and the viewer is started on the first frame. Every launch
// failure is answered with success=false and a readable message.
package action
