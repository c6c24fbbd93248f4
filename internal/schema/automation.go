package schema

// TriggerKind identifies the mutation pattern an automation listens for.
type TriggerKind string

const (
	TriggerStatusChange      TriggerKind = "statusChange"
	TriggerColumnChange      TriggerKind = "columnChange"
	TriggerAssigneeChange    TriggerKind = "assigneeChange"
	TriggerReviewerChange    TriggerKind = "reviewerChange"
	TriggerPriorityChange    TriggerKind = "priorityChange"
	TriggerDeadlineChange    TriggerKind = "deadlineChange"
	TriggerTypeChange        TriggerKind = "typeChange"
	TriggerSelectFieldChange TriggerKind = "selectFieldChange"
)

// ValidTriggerKinds enumerates every recognized trigger kind.
var ValidTriggerKinds = map[TriggerKind]bool{
	TriggerStatusChange:      true,
	TriggerColumnChange:      true,
	TriggerAssigneeChange:    true,
	TriggerReviewerChange:    true,
	TriggerPriorityChange:    true,
	TriggerDeadlineChange:    true,
	TriggerTypeChange:        true,
	TriggerSelectFieldChange: true,
}

// Trigger is the stored field-level before/after pattern of an automation.
// Payload is a variant: which fields are meaningful depends on Kind.
// Triggers are value objects and are never mutated by the engine.
type Trigger struct {
	Kind    TriggerKind    `json:"id"`
	Payload TriggerPayload `json:"item"`
}

// TriggerPayload carries the per-kind trigger parameters. The persisted
// shape keeps all variants in one document; unset fields are omitted.
//
// Pointer fields distinguish "unset" from zero values: a basic-field
// trigger with From and To both nil never matches.
type TriggerPayload struct {
	// statusChange: for every key present in FromStatus the before
	// status flag must equal it, and likewise ToStatus against after.
	FromStatus map[string]bool `json:"fromStatus,omitempty"`
	ToStatus   map[string]bool `json:"toStatus,omitempty"`

	// columnChange / typeChange
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`

	// priorityChange
	FromLevel *int `json:"fromLevel,omitempty"`
	ToLevel   *int `json:"toLevel,omitempty"`

	// deadlineChange: optional set/cleared constraints.
	DeadlineSet     bool `json:"deadlineSet,omitempty"`
	DeadlineCleared bool `json:"deadlineCleared,omitempty"`

	// assigneeChange / reviewerChange: independent sub-conditions,
	// every one present must hold.
	FromMembers         []string `json:"fromMembers,omitempty"`
	ToMembers           []string `json:"toMembers,omitempty"`
	FromEmptyToNotEmpty bool     `json:"fromEmptyToNotEmpty,omitempty"`
	FromNotEmptyToEmpty bool     `json:"fromNotEmptyToEmpty,omitempty"`
	CountReducedFrom    *int     `json:"countReducedFrom,omitempty"`
	CountIncreasedFrom  *int     `json:"countIncreasedFrom,omitempty"`

	// selectFieldChange: property name plus allowed value codes per side.
	Field      string         `json:"field,omitempty"`
	FromValues []SelectOption `json:"fromValues,omitempty"`
	ToValues   []SelectOption `json:"toValues,omitempty"`
}

// ConditionOperator joins the conditions of a flat list or a group.
type ConditionOperator string

const (
	OperatorAnd ConditionOperator = "and"
	OperatorOr  ConditionOperator = "or"
)

// Condition is a single predicate over one declared property of a record.
type Condition struct {
	Field      string     `json:"field"`
	Comparator Comparator `json:"comparator"`
	Value      any        `json:"value,omitempty"`
}

// ConditionGroup is a node of a nested boolean expression. Order
// interleaves condition ids and child-group ids and fixes evaluation
// order; an empty Order evaluates to true.
type ConditionGroup struct {
	Operator   ConditionOperator         `json:"operator"`
	Order      []string                  `json:"order"`
	Conditions map[string]Condition      `json:"conditions,omitempty"`
	Groups     map[string]ConditionGroup `json:"conditionGroups,omitempty"`
}

// ActionKind identifies the mutation or side effect an action performs.
type ActionKind string

const (
	ActionChangeStatus      ActionKind = "changeStatus"
	ActionChangeColumn      ActionKind = "changeColumn"
	ActionChangeMember      ActionKind = "changeMember"
	ActionChangeLabel       ActionKind = "changeLabel"
	ActionChangeSimpleField ActionKind = "changeSimpleField"
	ActionSendEmail         ActionKind = "sendEmail"
	ActionGiveRole          ActionKind = "giveRole"
	ActionCreateCard        ActionKind = "createCard"
	ActionCloseCard         ActionKind = "closeCard"
)

// ValidActionKinds enumerates every recognized action kind.
var ValidActionKinds = map[ActionKind]bool{
	ActionChangeStatus:      true,
	ActionChangeColumn:      true,
	ActionChangeMember:      true,
	ActionChangeLabel:       true,
	ActionChangeSimpleField: true,
	ActionSendEmail:         true,
	ActionGiveRole:          true,
	ActionCreateCard:        true,
	ActionCloseCard:         true,
}

// MemberKind selects which member list a changeMember action edits.
type MemberKind string

const (
	MemberAssignee MemberKind = "assignee"
	MemberReviewer MemberKind = "reviewer"
)

// Action is one stored step of an automation's action list. Position in
// the list is the execution order.
type Action struct {
	Kind    ActionKind    `json:"type"`
	Payload ActionPayload `json:"data"`
}

// ActionPayload carries the per-kind action parameters.
type ActionPayload struct {
	// changeStatus
	Status *CardStatus `json:"status,omitempty"`

	// changeColumn / createCard
	ColumnID string `json:"columnId,omitempty"`

	// changeMember / changeLabel: four mutually exclusive verbs. Only
	// the first verb present (in Set, Add, Remove, Clear order) applies.
	Member MemberKind `json:"member,omitempty"`
	Set    []string   `json:"set,omitempty"`
	Add    []string   `json:"add,omitempty"`
	Remove []string   `json:"remove,omitempty"`
	Clear  bool       `json:"clear,omitempty"`

	// changeSimpleField
	Field string `json:"field,omitempty"`
	Value any    `json:"value,omitempty"`

	// sendEmail
	Email *EmailSpec `json:"email,omitempty"`

	// giveRole
	Roles   []string `json:"roles,omitempty"`
	UserIDs []string `json:"userIds,omitempty"`
	// ToAssignees grants roles to the card's assignees instead of a
	// fixed user list.
	ToAssignees bool `json:"toAssignees,omitempty"`

	// createCard
	Card *CardSeed `json:"card,omitempty"`
}

// EmailSpec describes a sendEmail action's message.
type EmailSpec struct {
	// To lists recipient user ids. ToRecordOwner additionally targets
	// the owner of the mutated collection record.
	To            []string `json:"to,omitempty"`
	ToRecordOwner bool     `json:"toRecordOwner,omitempty"`
	Subject       string   `json:"subject"`
	Body          string   `json:"body"`
}

// CardSeed is the template a createCard action instantiates.
type CardSeed struct {
	Title     string   `json:"title"`
	ProjectID string   `json:"projectId"`
	ColumnID  string   `json:"columnId"`
	Type      string   `json:"type,omitempty"`
	Priority  int      `json:"priority,omitempty"`
	Assignee  []string `json:"assignee,omitempty"`
}

// OwnerType distinguishes the two entities automations register against.
type OwnerType string

const (
	OwnerCircle     OwnerType = "circle"
	OwnerCollection OwnerType = "collection"
)

// Automation is a stored rule: one trigger, a boolean condition
// expression, and an ordered action list. Exactly one of Conditions or
// RootGroup carries the condition expression; both empty means the
// automation fires whenever its trigger matches.
type Automation struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Trigger    Trigger           `json:"trigger"`
	Operator   ConditionOperator `json:"operator,omitempty"`
	Conditions []Condition       `json:"conditions,omitempty"`
	RootGroup  *ConditionGroup   `json:"rootConditionGroup,omitempty"`
	Actions    []Action          `json:"actions"`
	Active     bool              `json:"active"`
}
