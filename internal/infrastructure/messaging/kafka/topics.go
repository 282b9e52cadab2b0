// Package kafka carries validation jobs to the workers and results back out.
package kafka

const (
	// TopicValidationJobs carries Job messages from submitters to workers.
	TopicValidationJobs = "mechvalid.validation.jobs"

	// TopicValidationResults carries per-reaction Result messages.
	TopicValidationResults = "mechvalid.validation.results"

	// TopicValidationJobsDLQ receives jobs that exhausted their retries or
	// failed in a way redelivery cannot fix.
	TopicValidationJobsDLQ = TopicValidationJobs + ".dlq"
)
