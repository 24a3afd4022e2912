package assist

// Welcome greets the user when the conversation opens.
const Welcome = "Hi! I'm your DoWhistle Assistant. Tell me what you need - rides, services, or deals - and I'll find nearby options and let you know when one's close. You're just one whistle away. How can I help?"

// ConnectivityMessage is shown when a coordinate search could not reach the
// tool server at all. It is distinct from a tool failure, which surfaces the
// server's own error.
const ConnectivityMessage = "I'm having trouble responding right now. Please try again, or tell me how I can help with DoWhistle services."
