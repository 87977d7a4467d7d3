package workflow

// Phase is the checkout state machine position. The same machine drives cart
// purchases and swap cash top-ups; the context tag decides the side effect
// that runs after Succeeded.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAwaitingAuth   Phase = "awaiting_auth"
	PhaseAmountComputed Phase = "amount_computed"
	PhaseProcessing     Phase = "processing"
	PhaseSucceeded      Phase = "succeeded"
)

// PaymentContext distinguishes a cart purchase from a swap cash top-up.
type PaymentContext string

const (
	ContextCart PaymentContext = "cart"
	ContextSwap PaymentContext = "swap"
)

// CheckoutState is the explicit state of one user's checkout machine.
// The simulated processor cannot fail, so there is no failed phase.
type CheckoutState struct {
	Phase   Phase          `json:"phase"`
	Context PaymentContext `json:"context,omitempty"`
	Amount  float64        `json:"amount,omitempty"`
	Step    int            `json:"step,omitempty"`
	Steps   int            `json:"steps,omitempty"`
}

func idleState() CheckoutState {
	return CheckoutState{Phase: PhaseIdle}
}
