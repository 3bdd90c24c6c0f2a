package chainrpc

import "encoding/json"

// Account is the get_account response of an EOSIO chain API node.
type Account struct {
	AccountName            string          `json:"account_name"`
	HeadBlockNum           int64           `json:"head_block_num"`
	HeadBlockTime          string          `json:"head_block_time"`
	Privileged             bool            `json:"privileged"`
	LastCodeUpdate         string          `json:"last_code_update"`
	Created                string          `json:"created"`
	CoreLiquidBalance      string          `json:"core_liquid_balance,omitempty"`
	RAMQuota               json.Number     `json:"ram_quota"`
	NetWeight              json.Number     `json:"net_weight"`
	CPUWeight              json.Number     `json:"cpu_weight"`
	NetLimit               ResourceLimit   `json:"net_limit"`
	CPULimit               ResourceLimit   `json:"cpu_limit"`
	RAMUsage               json.Number     `json:"ram_usage"`
	Permissions            []Permission    `json:"permissions"`
	TotalResources         json.RawMessage `json:"total_resources,omitempty"`
	SelfDelegatedBandwidth json.RawMessage `json:"self_delegated_bandwidth,omitempty"`
	RefundRequest          json.RawMessage `json:"refund_request,omitempty"`
	VoterInfo              json.RawMessage `json:"voter_info,omitempty"`
	RexInfo                json.RawMessage `json:"rex_info,omitempty"`
}

// ResourceLimit is a net or cpu usage window.
type ResourceLimit struct {
	Used      json.Number `json:"used"`
	Available json.Number `json:"available"`
	Max       json.Number `json:"max"`
}

// Permission is one named authority level of an account, e.g. "owner" or
// "active". Parent is empty for the root permission.
type Permission struct {
	PermName     string    `json:"perm_name"`
	Parent       string    `json:"parent"`
	RequiredAuth Authority `json:"required_auth"`
}

// Authority is the weighted threshold satisfied by keys, other accounts'
// permissions and time waits.
type Authority struct {
	Threshold uint32                  `json:"threshold"`
	Keys      []KeyWeight             `json:"keys"`
	Accounts  []PermissionLevelWeight `json:"accounts"`
	Waits     []WaitWeight            `json:"waits"`
}

// KeyWeight is a public key contributing weight to an authority.
type KeyWeight struct {
	Key    string `json:"key"`
	Weight uint16 `json:"weight"`
}

// PermissionLevel names a permission of an account.
type PermissionLevel struct {
	Actor      string `json:"actor"`
	Permission string `json:"permission"`
}

// PermissionLevelWeight is a delegated permission contributing weight to an
// authority.
type PermissionLevelWeight struct {
	Permission PermissionLevel `json:"permission"`
	Weight     uint16          `json:"weight"`
}

// WaitWeight is a time delay contributing weight to an authority.
type WaitWeight struct {
	WaitSec uint32 `json:"wait_sec"`
	Weight  uint16 `json:"weight"`
}
