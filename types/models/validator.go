package models

// ValidatorPageData is a struct to hold info for the validator page
type ValidatorPageData struct {
	Index                      uint64 `json:"index"`
	Name                       string `json:"name"`
	Resolved                   bool   `json:"resolved"`
	Status                     string `json:"status"`
	Balance                    uint64 `json:"balance"`
	EffectiveBalance           uint64 `json:"effective_balance"`
	PublicKey                  []byte `json:"pubkey"`
	WithdrawalCredentials      []byte `json:"withdrawal_credentials"`
	Slashed                    bool   `json:"slashed"`
	ActivationEligibilityEpoch uint64 `json:"activation_eligibility_epoch"`
	ActivationEpoch            uint64 `json:"activation_epoch"`
	ShowActivation             bool   `json:"show_activation"`
	ExitEpoch                  uint64 `json:"exit_epoch"`
	ShowExit                   bool   `json:"show_exit"`
	WithdrawableEpoch          uint64 `json:"withdrawable_epoch"`
	ShowWithdrawable           bool   `json:"show_withdrawable"`
}
