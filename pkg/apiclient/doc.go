// Package apiclient is a thin JSON client for the MakerDB REST backend. Every
// call targets a fixed base path, sends uniform Accept/Content-Type headers
// and turns non-2xx responses into *StatusError values carrying the backend's
// error detail.
package apiclient
