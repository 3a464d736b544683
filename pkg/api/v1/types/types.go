package types

type OutputFormat string

var OutputFormatJSON = OutputFormat("json")
var OutputFormatXLSX = OutputFormat("xlsx")
var OutputFormatYAML = OutputFormat("yaml")

// Alignment decides how the tabular report pairs extracted records with measurement rows.
type Alignment string

// AlignPosition pairs row i with row i. This is what the report has always done.
var AlignPosition = Alignment("position")

// AlignDevice joins on device id and parameter name.
var AlignDevice = Alignment("device")
