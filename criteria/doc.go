// Package criteria holds the per-entity filter sets accepted by the query
// services, for example "/blogs?id.greaterThan=5&name.contains=go&userId.specified=false".
package criteria
