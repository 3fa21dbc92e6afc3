// Package kb provides the client for the remote knowledge-base service.
//
// The service owns resource storage, content extraction and search execution.
// This package only speaks its HTTP API: resource lookup and creation, file
// upload, metadata updates, and the /search and /find retrieval endpoints.
package kb
