// Package ingest orchestrates document ingestion into the knowledge base.
//
// The Coordinator decides create vs. skip vs. update for a single document
// using its fingerprint; Batch fans the coordinator out over a directory;
// the Poller waits for remote processing to finish with capped exponential
// backoff; the Watcher re-ingests files as they change on disk.
package ingest
