package chatbot

// DefaultThreshold is the minimum similarity for a confident match.
const DefaultThreshold = 0.40

// DefaultFallback is returned when no intent clears the threshold.
const DefaultFallback = "I'm not sure I understood that. You can ask me about our services, " +
	"booking a session, pricing, or cancellation. For anything urgent, please contact us directly."

// DefaultIntents is the built-in conversational surface of the platform.
func DefaultIntents() []Intent {
	return []Intent{
		{
			Name:     "greeting",
			Examples: []string{"Hi", "Hello", "Hey", "Good morning", "Anyone there?"},
			Response: "Hello! I'm your MindSettler guide. I'm here to help you understand our " +
				"services and start your journey towards well-being.",
		},
		{
			Name: "first_session",
			Examples: []string{
				"what happens in first session", "initial assessment", "what to expect",
				"first meeting", "goal setting", "how do we start",
			},
			Response: "Your first session includes an initial assessment, goal setting, and " +
				"building rapport with your psychologist. We'll discuss your concerns and " +
				"create a personalized plan for your mental wellness journey.",
			Link: "/about",
		},
		{
			Name: "session_duration",
			Examples: []string{
				"how long is a session", "duration", "how many minutes", "session length", "time limit",
			},
			Response: "Each session lasts approximately 60 minutes, providing ample time for " +
				"meaningful discussion and structured guidance.",
		},
		{
			Name: "pricing_info",
			Examples: []string{
				"how much does it cost", "price", "fees", "session rate",
				"online vs offline cost", "cost of therapy",
			},
			Response: "Session pricing varies based on the type and location. Online sessions " +
				"start at $50, while offline sessions range from $75-$100. Feel free to contact " +
				"us for detailed pricing.",
			Link: "/booking",
		},
		{
			Name: "reschedule_cancel",
			Examples: []string{
				"cancel my session", "reschedule", "change appointment time", "refund policy", "missed session",
			},
			Response: "Yes, you can cancel or reschedule up to 24 hours before your session " +
				"without penalty. Please contact us as soon as possible if you need to make changes.",
			Link: "/contact",
		},
		{
			Name: "confidentiality_safety",
			Examples: []string{
				"is it private", "confidentiality", "data safety", "is my info safe",
				"anonymous", "privacy policy",
			},
			Response: "Absolutely. All sessions are conducted under strict confidentiality " +
				"agreements. Your personal information and session details are protected and " +
				"never shared without your explicit consent.",
			Link: "/privacy",
		},
		{
			Name: "session_modes",
			Examples: []string{
				"online or offline", "video call", "in person", "face to face",
				"do you have a clinic", "visit the studio",
			},
			Response: "Yes, we provide both online video sessions for convenience and in-person " +
				"sessions at our designated locations for those who prefer face-to-face interaction.",
			Link: "/booking",
		},
		{
			Name: "expert_qualifications",
			Examples: []string{
				"who are the psychologists", "qualifications", "are they licensed",
				"experience", "expert credentials", "degrees",
			},
			Response: "Our psychologists are licensed professionals with extensive experience in " +
				"mental health support and psycho-education. They undergo regular training and " +
				"follow strict ethical guidelines.",
			Link: "/about",
		},
		{
			Name: "booking",
			Examples: []string{
				"I want to book a session", "How to schedule?", "offline session",
				"first consultation", "book now",
			},
			Response: "You can begin with an introductory 60-minute session. We offer both " +
				"online and offline sessions at our Studio.",
			Link: "/booking",
		},
		{
			Name: "counseling_caution",
			Examples: []string{
				"I feel depressed", "I have anxiety", "Can you give me advice?",
				"help me with my mental health",
			},
			Response: "I hear you. While I cannot provide clinical advice, I can help you " +
				"schedule a confidential session with our experts.",
			Link: "/booking",
		},
		{
			Name: "services",
			Examples: []string{
				"What is MindSettler?", "what do you do?", "psycho-education awareness",
				"how can you help?",
			},
			Response: "MindSettler is a platform for psycho-education and mental well-being, " +
				"focusing on awareness and personalized support.",
			Link: "/about",
		},
		{
			Name: "payment",
			Examples: []string{
				"payment mode", "how to pay?", "UPI", "cash payment", "pricing",
			},
			Response: "Payments are handled manually via UPI ID or cash. We will confirm your " +
				"appointment once the payment is verified.",
			Link: "/contact",
		},
		{
			Name: "crisis",
			Examples: []string{
				"I want to die", "panic attack", "emergency", "suicidal", "hurt myself", "help me now",
			},
			Response: "I hear you, and I want you to know you're not alone. While I am an AI and " +
				"cannot provide emergency clinical help, please reach out to a professional " +
				"immediately. Your safety is the most important thing right now.",
			Link: "/emergency-resources",
		},
	}
}
