package linter

// HostObject is the identifier scripts receive for the execution host
// capability object.
const HostObject = "nango"

// -----------------------------------------------------------------------------
// Host calls
// -----------------------------------------------------------------------------

// HostCall enumerates the closed vocabulary of operations a script may invoke
// on the host object.
type HostCall string

const (
	CallBatchSave              HostCall = "batchSave"
	CallBatchSend              HostCall = "batchSend"
	CallBatchDelete            HostCall = "batchDelete"
	CallLog                    HostCall = "log"
	CallGetFieldMapping        HostCall = "getFieldMapping"
	CallSetFieldMapping        HostCall = "setFieldMapping"
	CallGetMetadata            HostCall = "getMetadata"
	CallSetMetadata            HostCall = "setMetadata"
	CallGet                    HostCall = "get"
	CallPost                   HostCall = "post"
	CallPut                    HostCall = "put"
	CallPatch                  HostCall = "patch"
	CallDelete                 HostCall = "delete"
	CallGetConnection          HostCall = "getConnection"
	CallSetLastSyncDate        HostCall = "setLastSyncDate"
	CallGetEnvironmentVariable HostCall = "getEnvironmentVariable"
	CallTriggerAction          HostCall = "triggerAction"
)

func (c HostCall) String() string {
	return string(c)
}

// hostCalls resolves a member name on the host object to its operation.
var hostCalls = map[string]HostCall{
	"batchSave":              CallBatchSave,
	"batchSend":              CallBatchSend,
	"batchDelete":            CallBatchDelete,
	"log":                    CallLog,
	"getFieldMapping":        CallGetFieldMapping,
	"setFieldMapping":        CallSetFieldMapping,
	"getMetadata":            CallGetMetadata,
	"setMetadata":            CallSetMetadata,
	"get":                    CallGet,
	"post":                   CallPost,
	"put":                    CallPut,
	"patch":                  CallPatch,
	"delete":                 CallDelete,
	"getConnection":          CallGetConnection,
	"setLastSyncDate":        CallSetLastSyncDate,
	"getEnvironmentVariable": CallGetEnvironmentVariable,
	"triggerAction":          CallTriggerAction,
}

// deprecatedCalls maps legacy operations to their replacements. Use triggers
// a warning diagnostic and never blocks compilation.
var deprecatedCalls = map[HostCall]HostCall{
	CallBatchSend:       CallBatchSave,
	CallGetFieldMapping: CallGetMetadata,
	CallSetFieldMapping: CallSetMetadata,
}

// actionDisallowedCalls are the persistence operations an action script must
// not use. Any occurrence blocks compilation of that script.
var actionDisallowedCalls = map[HostCall]bool{
	CallBatchSave:       true,
	CallBatchSend:       true,
	CallBatchDelete:     true,
	CallSetLastSyncDate: true,
}

// modelRefCalls take a model name as their final string-literal argument.
var modelRefCalls = map[HostCall]bool{
	CallBatchSave:   true,
	CallBatchDelete: true,
}
