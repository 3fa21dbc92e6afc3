// Package document models local files staged for knowledge-base ingestion.
//
// A document's fingerprint is derived from its file name and modification
// time; it doubles as the remote lookup slug, which is what makes repeated
// ingestion of an unchanged file a no-op.
package document
