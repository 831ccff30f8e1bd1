package conversation

// Flows.
const (
	FlowBooking  = "booking"
	FlowProvider = "provider"
	FlowCancel   = "cancel"
	FlowRoster   = "roster"
)

// Booking flow states.
const (
	StateName          = "name"
	StateAge           = "age"
	StateSex           = "sex"
	StateReason        = "reason"
	StatePhone         = "phone"
	StateHospital      = "hospital"
	StateSelectDay     = "select_day"
	StateSelectSession = "select_session"
)

// Provider flow states.
const (
	StateProviderHospital = "provider_hospital"
	StateProviderDay      = "provider_day"
	StateConfirmOverwrite = "confirm_overwrite"
	StateProviderSession  = "provider_session"
)

const (
	StateSelectBooking = "select_booking"
	StateRosterDay     = "roster_day"
)

// Commands.
const (
	CmdStart         = "/start"
	CmdSchedule      = "/schedule"
	CmdMyAppointment = "/myappointment"
	CmdViewPatients  = "/viewpatients"
	CmdCancel        = "/cancel"
)

const maxAge = 130

var (
	sexChoices     = []string{"Male", "Female", "Other"}
	confirmChoices = []string{"Yes", "No"}
)

const (
	msgIdle             = "Send /start to book an appointment or /myappointment to manage one."
	msgUnknownCommand   = "Unknown command. Try /start, /myappointment or /cancel."
	msgCancelled        = "Cancelled. Nothing was booked."
	msgNothingToCancel  = "There is nothing to cancel."
	msgUnauthorized     = "You are not authorized."
	msgProviderWelcome  = "Welcome, doctor. Use /schedule to set your availability or /viewpatients to see who is booked."
	msgAskName          = "Welcome! What is your full name?"
	msgAskAge           = "How old are you?"
	msgBadAge           = "Please enter your age as a whole number."
	msgAskSex           = "What is your sex?"
	msgBadSex           = "Please choose one of the options."
	msgAskReason        = "What is the reason for your visit?"
	msgAskPhone         = "What is your phone number?"
	msgBadPhone         = "Please enter a valid phone number."
	msgAskHospital      = "Choose a hospital:"
	msgBadHospital      = "Please choose a hospital from the list."
	msgBadDay           = "Please choose one of the offered days."
	msgBadSession       = "Please choose one of the offered sessions."
	msgSessionFull      = "Sorry, that session just filled up. Please /start again to pick another time."
	msgDuplicateBooking = "You already have an appointment this week. Only one booking per week is allowed."
	msgScheduleGone     = "That schedule is no longer available. Please /start again."
	msgAskDay           = "Select a day:"
	msgBadWeekday       = "Invalid day. Please select from the list."
	msgAskSession       = "Select session:"
	msgScheduleKept     = "Schedule unchanged."
	msgBadConfirm       = "Please answer Yes or No."
	msgNoAppointments   = "You have no upcoming appointments."
	msgBadBookingNumber = "Please reply with the number of the appointment to cancel."
	msgAlreadyReleased  = "That appointment was already cancelled."
	msgBookingGone      = "That appointment no longer exists."
	msgAskRosterDay     = "Choose a day to view patients:"
	msgNoRoster         = "No schedule found for that date."
)
