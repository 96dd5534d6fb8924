// Package schemas holds the JSON Schemas for the scorer's output documents.
package schemas

import _ "embed"

// AnalysisResultFile is the file name of the analysis result schema.
const AnalysisResultFile = "analysis_result.schema.json"

// AnalysisResult is the JSON Schema for a scored résumé.
//
//go:embed analysis_result.schema.json
var AnalysisResult string
