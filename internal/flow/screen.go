package flow

// Screen is one step of the check-in wizard. Exactly one is active at a time.
type Screen string

const (
	ScreenDashboard         Screen = "dashboard"
	ScreenGuestRegistration Screen = "guest_registration"
	ScreenScanner           Screen = "scanner"
	ScreenReturningGuest    Screen = "returning_guest"
	ScreenNewGuest          Screen = "new_guest"
	ScreenStayDetails       Screen = "stay_details"
	ScreenBookingSummary    Screen = "booking_summary"
	ScreenCardDetails       Screen = "card_details"
	ScreenCashConfirm       Screen = "cash_confirm"
	ScreenTapToPay          Screen = "tap_to_pay"
	ScreenProcessing        Screen = "processing"
	ScreenCardSuccess       Screen = "card_success"
	ScreenCashSuccess       Screen = "cash_success"
	ScreenCardDeclined      Screen = "card_declined"
	ScreenReceiptPrinted    Screen = "receipt_printed"
)

var AllScreens = []Screen{
	ScreenDashboard, ScreenGuestRegistration, ScreenScanner, ScreenReturningGuest, ScreenNewGuest,
	ScreenStayDetails, ScreenBookingSummary, ScreenCardDetails, ScreenCashConfirm, ScreenTapToPay,
	ScreenProcessing, ScreenCardSuccess, ScreenCashSuccess, ScreenCardDeclined, ScreenReceiptPrinted,
}

// Action is an operator input.
type Action string

const (
	ActCheckIn      Action = "check_in"
	ActCheckOut     Action = "check_out"
	ActStayOver     Action = "stay_over"
	ActScanID       Action = "scan_id"
	ActBack         Action = "back"
	ActNext         Action = "next"
	ActStartCamera  Action = "start_camera"
	ActStopCamera   Action = "stop_camera"
	ActToggleTorch  Action = "toggle_torch"
	ActClose        Action = "close"
	ActProceed      Action = "proceed"
	ActCancel       Action = "cancel"
	ActSkip         Action = "skip"
	ActSave         Action = "save"
	ActPayCash      Action = "pay_cash"
	ActPayCard      Action = "pay_card"
	ActTapToPay     Action = "tap_to_pay"
	ActProceedToPay Action = "proceed_to_pay"
	ActSimulateTap  Action = "simulate_tap"
	ActConfirmCash  Action = "confirm_cash"
	ActRetry        Action = "retry"
	ActChangeMethod Action = "change_method"
	ActPrintReceipt Action = "print_receipt"
	ActDone         Action = "done"
	ActDiscard      Action = "discard"
)

// Screens on which the operator may abandon the check-in.
var discardable = map[Screen]bool{
	ScreenStayDetails:    true,
	ScreenBookingSummary: true,
	ScreenCardDetails:    true,
	ScreenCashConfirm:    true,
}

// Operator-facing messages.
const (
	msgRequiredFields   = "Please Complete All the Required Fields."
	msgStayRequired     = "Please complete required stay details."
	msgCardRequired     = "Please complete all required card fields."
	msgAutoFillFailed   = "Auto-fill failed. Please enter details manually."
	msgAutoFilled       = "Details auto-filled."
	msgGuestSaved       = "Guest saved."
	msgGuestSaveFailed  = "Could not save guest. Try again or skip."
	msgLookupFailed     = "Guest lookup unavailable. Continuing as new guest."
	msgScanning         = "Scanning…"
	msgStopped          = "Stopped."
	msgCameraBlocked    = "Camera blocked. Enable camera permissions for this site."
	msgStartCamera      = "Start the camera first."
	msgNoTorch          = "Torch not available on this device/browser."
	msgBadImage         = "Could not decode that image."
	msgCheckOutDisabled = "Check-Out is not available on this kiosk."
	msgStayOverDisabled = "Stay-Over is not available on this kiosk."

	discardTitle = "Discard check-in?"
	discardBody  = "Discard this check-in flow?"
	discardOK    = "Discard"
)
