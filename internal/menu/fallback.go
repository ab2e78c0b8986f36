package menu

// Fallback returns the built-in default navigation served when every
// retrieval strategy has failed. It is the last link in the acquisition
// chain and must never require I/O.
func Fallback() MenuData {
	return MenuData{
		Navigation: []NavigationItem{
			{Title: "My Sites", Href: "/sites"},
			{Title: "Forms Central", Href: "/forms"},
			{
				Title: "Library",
				MegaMenu: &MegaMenuData{
					Columns: []MenuColumn{
						{
							Title: "Resources",
							Items: []MenuItem{
								{Title: "Document Library", Href: "/library/documents"},
								{Title: "Media Library", Href: "/library/media"},
							},
						},
						{
							Title: "Archives",
							Items: []MenuItem{
								{Title: "Policy Archive", Href: "/library/policies"},
							},
						},
					},
				},
			},
			{Title: "IT Support Portal", Href: "/support"},
		},
	}
}
