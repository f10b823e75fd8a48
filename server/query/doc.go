// Package query implements a status query responder for a running world.
//
// Requests follow the query protocol used by Bedrock servers: a client first
// obtains a challenge token through a handshake, after which it may request
// the full status of the server. The responder only reads Data supplied by a
// ProviderFunc and never touches the world itself.
package query
