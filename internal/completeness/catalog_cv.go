package completeness

var cvCatalog = catalog[*CVData]{
	version: "cv.v1",
	checks: []fieldCheck[*CVData]{
		{
			FieldSpec: FieldSpec{
				ID:            "personalInfo.name",
				Field:         "personalInfo.name",
				Importance:    ImportanceCritical,
				Penalty:       20,
				Kind:          KindScalar,
				Reason:        "Recruiters and applicant tracking systems file a CV under the candidate's name.",
				EstimatedTime: "1 minute",
				Example:       "Jane Doe",
				Action: ActionText{
					Title:       "Add your full name",
					Description: "Put your full name at the top of the CV.",
				},
			},
			present: func(d *CVData) Presence { return textPresence(d.PersonalInfo.Name) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "personalInfo.email",
				Field:         "personalInfo.email",
				Importance:    ImportanceCritical,
				Penalty:       15,
				Kind:          KindScalar,
				Reason:        "Without an email address a recruiter has no reliable way to reply.",
				EstimatedTime: "1 minute",
				Example:       "jane.doe@example.com",
				Action: ActionText{
					Title:       "Add an email address",
					Description: "Use a professional address you check daily.",
				},
			},
			present: func(d *CVData) Presence { return textPresence(d.PersonalInfo.Email) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "experience",
				Field:         "experience",
				Importance:    ImportanceCritical,
				Penalty:       20,
				Kind:          KindCollection,
				Reason:        "Work history is the first section most reviewers read.",
				EstimatedTime: "30 minutes",
				Templates: []string{
					"{Job title}, {Company} ({Start} - {End}): {What you owned and the result}.",
					"{Job title} at {Company}, {Start} - present. Led {project}, which {measurable outcome}.",
				},
				Action: ActionText{
					Title:       "Add your work experience",
					Description: "List your roles, most recent first, with company, dates and outcomes.",
				},
			},
			present: func(d *CVData) Presence { return countPresence(len(d.Experience)) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "skills",
				Field:         "skills.technical|skills.soft",
				Importance:    ImportanceCritical,
				Penalty:       15,
				Kind:          KindComposite,
				Reason:        "Keyword matching against a job description starts from the skills section.",
				EstimatedTime: "10 minutes",
				Example:       "Go, PostgreSQL, Kubernetes; stakeholder communication",
				Templates: []string{
					"Technical: {language}, {framework}, {tool}",
					"Soft: {skill}, {skill}",
				},
				Action: ActionText{
					Title:       "List your skills",
					Description: "Add technical skills, soft skills, or both.",
				},
			},
			present: func(d *CVData) Presence {
				return anyPresent(countPresence(len(d.Skills.Technical)), countPresence(len(d.Skills.Soft)))
			},
		},
		{
			FieldSpec: FieldSpec{
				ID:            "personalInfo.phone",
				Field:         "personalInfo.phone",
				Importance:    ImportanceRecommended,
				Penalty:       10,
				Kind:          KindScalar,
				Reason:        "Many recruiters prefer a quick call before scheduling interviews.",
				EstimatedTime: "1 minute",
				Example:       "+1 555 010 0199",
				Action: ActionText{
					Title:       "Add a phone number",
					Description: "Include the country code.",
				},
			},
			present: func(d *CVData) Presence { return textPresence(d.PersonalInfo.Phone) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "personalInfo.summary",
				Field:         "personalInfo.summary",
				Importance:    ImportanceRecommended,
				Penalty:       10,
				Kind:          KindScalar,
				Reason:        "A short summary frames the rest of the CV for a skimming reader.",
				EstimatedTime: "10 minutes",
				Templates: []string{
					"{Role} with {N} years of experience in {domain}. Known for {strength}.",
					"{Role} focused on {area}, looking to {goal}.",
				},
				Action: ActionText{
					Title:       "Write a professional summary",
					Description: "Two or three sentences on who you are and what you are looking for.",
				},
			},
			present: func(d *CVData) Presence { return textPresence(d.PersonalInfo.Summary) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "education",
				Field:         "education",
				Importance:    ImportanceRecommended,
				Penalty:       10,
				Kind:          KindCollection,
				Reason:        "Many postings screen on a degree or equivalent training.",
				EstimatedTime: "5 minutes",
				Templates: []string{
					"{Degree} in {Field}, {Institution} ({Year})",
				},
				Action: ActionText{
					Title:       "Add your education",
					Description: "List degrees, bootcamps or equivalent training.",
				},
			},
			present: func(d *CVData) Presence { return countPresence(len(d.Education)) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "experience.dates",
				Field:         "experience[].dates",
				Importance:    ImportanceRecommended,
				Penalty:       5,
				Kind:          KindCollection,
				Reason:        "Undated roles make it impossible to judge seniority or gaps.",
				EstimatedTime: "5 minutes",
				Example:       "Jan 2021 - Mar 2024",
				Cluster:       "experience.entries",
				Action: ActionText{
					Title:       "Date every role",
					Description: "Add a start and end date to each experience entry.",
				},
			},
			present: func(d *CVData) Presence {
				states := make([]Presence, 0, len(d.Experience))
				for _, e := range d.Experience {
					states = append(states, textPresence(e.Dates))
				}
				return allPresent(states...)
			},
		},
		{
			FieldSpec: FieldSpec{
				ID:            "experience.description",
				Field:         "experience[].description",
				Importance:    ImportanceRecommended,
				Penalty:       5,
				Kind:          KindCollection,
				Reason:        "A title alone says little about scope or impact.",
				EstimatedTime: "15 minutes",
				Templates: []string{
					"Built {thing} used by {who}, reducing {metric} by {amount}.",
				},
				Cluster: "experience.entries",
				Action: ActionText{
					Title:       "Describe every role",
					Description: "Add one or two lines of outcomes to each experience entry.",
				},
			},
			present: func(d *CVData) Presence {
				states := make([]Presence, 0, len(d.Experience))
				for _, e := range d.Experience {
					states = append(states, textPresence(e.Description))
				}
				return allPresent(states...)
			},
		},
		{
			FieldSpec: FieldSpec{
				ID:            "personalInfo.location",
				Field:         "personalInfo.location",
				Importance:    ImportanceOptional,
				Penalty:       5,
				Kind:          KindScalar,
				Reason:        "Location helps with on-site and time-zone screening.",
				EstimatedTime: "1 minute",
				Example:       "Berlin, Germany",
				Action: ActionText{
					Title:       "Add your location",
					Description: "City and country are enough.",
				},
			},
			present: func(d *CVData) Presence { return textPresence(d.PersonalInfo.Location) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "certifications",
				Field:         "certifications",
				Importance:    ImportanceOptional,
				Penalty:       5,
				Kind:          KindCollection,
				Reason:        "Certifications back up claimed skills with third-party evidence.",
				EstimatedTime: "5 minutes",
				Example:       "AWS Certified Solutions Architect - Associate (2023)",
				Action: ActionText{
					Title:       "List your certifications",
					Description: "Include the issuer and the year obtained.",
				},
			},
			present: func(d *CVData) Presence { return countPresence(len(d.Certifications)) },
		},
	},
}
