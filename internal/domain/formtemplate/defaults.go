package formtemplate

const systemAuthor = "system"

var yesNo = []string{"Yes", "No"}

// DefaultFields is the form served until an admin saves a template.
func DefaultFields() []Field {
	return []Field{
		{ID: "firstName", Type: "text", Label: "First Name", Required: true, Placeholder: "Enter your first name", Section: "Personal Information"},
		{ID: "lastName", Type: "text", Label: "Last Name", Required: true, Placeholder: "Enter your last name", Section: "Personal Information"},
		{ID: "email", Type: "email", Label: "Email Address", Required: true, Placeholder: "your.email@example.com", Section: "Personal Information"},
		{ID: "phone", Type: "text", Label: "Phone Number", Required: true, Placeholder: "+1234567890", Section: "Personal Information"},
		{ID: "age", Type: "number", Label: "Age", Placeholder: "Your age", Section: "Personal Information"},
		{ID: "gender", Type: "select", Label: "Gender", Options: []string{"Male", "Female", "Other", "Prefer not to say"}, Section: "Personal Information"},

		{ID: "city", Type: "text", Label: "City", Required: true, Placeholder: "Your city", Section: "Location"},
		{ID: "country", Type: "text", Label: "Country", Required: true, Placeholder: "Your country", Section: "Location"},
		{ID: "timezone", Type: "text", Label: "Timezone", Placeholder: "e.g., GMT+0, EST, PST", Section: "Location"},

		{ID: "educationLevel", Type: "select", Label: "Education Level", Options: []string{"High School", "Associate Degree", "Bachelor's Degree", "Master's Degree", "PhD", "Other"}, Section: "Education"},
		{ID: "degreeName", Type: "text", Label: "Degree/Major", Placeholder: "e.g., Computer Science", Section: "Education"},
		{ID: "educationInstitution", Type: "text", Label: "Institution Name", Placeholder: "University name", Section: "Education"},

		{ID: "hasLaptop", Type: "radio", Label: "Do you have a laptop/computer?", Required: true, Options: yesNo, Section: "Work Setup"},
		{ID: "hasReliableInternet", Type: "radio", Label: "Do you have reliable internet?", Required: true, Options: yesNo, Section: "Work Setup"},
		{ID: "remoteWorkAvailable", Type: "radio", Label: "Can you work remotely?", Required: true, Options: yesNo, Section: "Work Setup"},
		{ID: "employmentStatus", Type: "select", Label: "Current Employment Status", Options: []string{"Employed Full-time", "Employed Part-time", "Freelancer", "Student", "Unemployed", "Other"}, Section: "Work Setup"},

		{ID: "availabilityType", Type: "select", Label: "Availability", Required: true, Options: []string{"Full-time", "Part-time", "Flexible"}, Section: "Availability"},
		{ID: "hoursPerWeek", Type: "number", Label: "Hours Available Per Week", Placeholder: "e.g., 40", Section: "Availability"},
		{ID: "preferredStartTime", Type: "text", Label: "Preferred Start Time", Placeholder: "e.g., 9:00 AM", Section: "Availability"},
		{ID: "preferredEndTime", Type: "text", Label: "Preferred End Time", Placeholder: "e.g., 5:00 PM", Section: "Availability"},
		{ID: "interestedLongTerm", Type: "radio", Label: "Interested in long-term work?", Options: yesNo, Section: "Availability"},

		{ID: "yearsOfExperience", Type: "number", Label: "Years of Experience", Placeholder: "Years in data annotation", Section: "Experience"},
		{ID: "previousCompanies", Type: "text", Label: "Previous Companies", Placeholder: "Company names (comma-separated)", Section: "Experience"},
		{ID: "relevantExperience", Type: "textarea", Label: "Describe Your Relevant Experience", Placeholder: "Tell us about your experience...", Section: "Experience"},

		{ID: "annotationTypes", Type: "multiselect", Label: "Annotation Types Experience", Options: []string{"Image", "Video", "Text", "Audio", "3D"}, Section: "Skills"},
		{ID: "annotationMethods", Type: "multiselect", Label: "Annotation Methods", Options: []string{"Bounding Box", "Polygon", "Polyline", "Keypoint", "Segmentation", "Classification", "Transcription", "NER", "Other"}, Section: "Skills"},
		{ID: "annotationTools", Type: "multiselect", Label: "Annotation Tools Experience", Options: []string{"CVAT", "Labelbox", "V7", "Scale AI", "Supervisely", "Roboflow", "Other"}, Section: "Skills"},
		{ID: "strongestTool", Type: "text", Label: "Strongest Annotation Tool", Placeholder: "Which tool are you best at?", Section: "Skills"},
		{ID: "languageProficiency", Type: "multiselect", Label: "Language Proficiency", Options: []string{"English", "Spanish", "French", "German", "Chinese", "Arabic", "Other"}, Section: "Skills"},

		{ID: "hasTrainedOthers", Type: "radio", Label: "Have you trained others in annotation?", Options: yesNo, Section: "Additional Information"},
		{ID: "complexTaskDescription", Type: "textarea", Label: "Describe a complex task you completed", Placeholder: "Tell us about a challenging project...", Section: "Additional Information"},
		{ID: "howHeardAbout", Type: "select", Label: "How did you hear about us?", Options: []string{"LinkedIn", "Job Board", "Friend/Referral", "Website", "Social Media", "Other"}, Section: "Additional Information"},
	}
}
