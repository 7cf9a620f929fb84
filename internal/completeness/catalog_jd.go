package completeness

var jdCatalog = catalog[*JDData]{
	version: "jd.v1",
	checks: []fieldCheck[*JDData]{
		{
			FieldSpec: FieldSpec{
				ID:            "jobTitle",
				Field:         "jobTitle",
				Importance:    ImportanceCritical,
				Penalty:       25,
				Kind:          KindScalar,
				Reason:        "Candidates search and filter postings by title first.",
				EstimatedTime: "1 minute",
				Example:       "Senior Backend Engineer",
				Action: ActionText{
					Title:       "Add a job title",
					Description: "Use the title candidates would search for.",
				},
			},
			present: func(d *JDData) Presence { return textPresence(d.JobTitle) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "company",
				Field:         "company",
				Importance:    ImportanceCritical,
				Penalty:       15,
				Kind:          KindScalar,
				Reason:        "Anonymous postings get far fewer qualified applicants.",
				EstimatedTime: "1 minute",
				Example:       "Acme Corp",
				Action: ActionText{
					Title:       "Name the hiring company",
					Description: "State the company or the team the role belongs to.",
				},
			},
			present: func(d *JDData) Presence { return textPresence(d.Company) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "responsibilities",
				Field:         "responsibilities",
				Importance:    ImportanceCritical,
				Penalty:       20,
				Kind:          KindCollection,
				Reason:        "Candidates decide whether to apply based on the day-to-day work.",
				EstimatedTime: "20 minutes",
				Templates: []string{
					"Own {area} end to end, from design to production.",
					"Work with {team} to deliver {outcome}.",
				},
				Action: ActionText{
					Title:       "Describe the responsibilities",
					Description: "List four to six concrete things the hire will do.",
				},
			},
			present: func(d *JDData) Presence { return countPresence(len(d.Responsibilities)) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "requirements",
				Field:         "requirements.required|requirements.preferred",
				Importance:    ImportanceCritical,
				Penalty:       20,
				Kind:          KindComposite,
				Reason:        "Without requirements, candidates cannot self-screen and matching has nothing to score against.",
				EstimatedTime: "15 minutes",
				Templates: []string{
					"Required: {N}+ years with {technology}",
					"Preferred: experience with {domain}",
				},
				Action: ActionText{
					Title:       "List the requirements",
					Description: "Split must-have qualifications from nice-to-have ones.",
				},
			},
			present: func(d *JDData) Presence {
				return anyPresent(countPresence(len(d.Requirements.Required)), countPresence(len(d.Requirements.Preferred)))
			},
		},
		{
			FieldSpec: FieldSpec{
				ID:            "compensation",
				Field:         "compensation",
				Importance:    ImportanceRecommended,
				Penalty:       10,
				Kind:          KindScalar,
				Reason:        "Postings with a salary range attract more applicants and are required in some jurisdictions.",
				EstimatedTime: "2 minutes",
				Example:       "90000-120000 EUR",
				Action: ActionText{
					Title:       "Add a compensation range",
					Description: "Give a range and the currency.",
				},
			},
			present: func(d *JDData) Presence { return textPresence(d.Compensation) },
		},
		{
			FieldSpec: FieldSpec{
				ID:            "location",
				Field:         "location",
				Importance:    ImportanceOptional,
				Penalty:       5,
				Kind:          KindScalar,
				Reason:        "Candidates filter by location or remote policy.",
				EstimatedTime: "1 minute",
				Example:       "Remote (EU time zones)",
				Action: ActionText{
					Title:       "Add a location",
					Description: "State the office location or the remote policy.",
				},
			},
			present: func(d *JDData) Presence { return textPresence(d.Location) },
		},
	},
}
