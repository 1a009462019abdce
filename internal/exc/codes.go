package exc

const (
	CodeUnknownFatal                   = "M0000"
	CodeFileNotFound                   = "M0001"
	CodeUnsupportedFileSystemOperation = "M0002"
	CodePermissionDenied               = "M0003"
	CodeUnsupportedFileFormat          = "M0004"
	CodeUnexpectedInput                = "M0005"
	CodeInvalidPattern                 = "M0006"
	CodeInvalidCaptureGroup            = "M0007"
	CodeNonConsumingRepetition         = "M0008"
	CodeUnresolvedLazy                 = "M0009"
	CodeWrongVariant                   = "M0010"
	CodeInvalidNumber                  = "M0011"
	CodeUnsupportedOutputFormat        = "M0012"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
