// Package wshub carries management requests over WebSocket text messages.
//
// Each message is a subject, an optional token and a JSON body:
//
//	mbean.route#1f
//	{"domain":"j256","objectName":"Cache","kind":"GET","member":"size"}
//
// The server answers every mbean.route message with an mbean.route message
// carrying the same token and a JSON encoded routing.Response. Messages of
// one connection are handled one after another, in arrival order, so
// responses come back in request order as well.
package wshub
