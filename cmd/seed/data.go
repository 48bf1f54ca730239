package main

import "github.com/diagnosis/founder-playbook/internal/domain"

var seedSections = []domain.Section{
	{
		Title: "Business Setup in Kuwait", Slug: "business-setup", Icon: "Building", Order: 1,
		Content: `## Getting Started with Business Registration

Setting up a business in Kuwait requires understanding the legal framework and registration process.

### Types of Business Entities

- **Sole Proprietorship** - Simplest form, 100% ownership for Kuwaitis
- **Limited Liability Company (WLL)** - Most common structure
- **Shareholding Company** - For larger enterprises
- **Foreign Branch** - For international companies

### Registration Steps

1. Choose your business activity and legal structure
2. Reserve a trade name at the Ministry of Commerce
3. Deposit capital at a local bank
4. Register with the Commercial Registry
5. Obtain municipal license

:::tip
Start the process early. Registration can take 2-4 weeks depending on your business type.
:::`,
	},
	{
		Title: "Branding & Identity Resources", Slug: "branding-identity", Icon: "Palette", Order: 2,
		Content: `## Building Your Brand

Your brand is more than a logo. Decide on your audience, voice and visual identity before commissioning design work.

- Bilingual name and logo (Arabic and English)
- Color palette and typography
- Social media handles reserved early`,
	},
	{
		Title: "Digital & Tech Guidance", Slug: "digital-tech", Icon: "Monitor", Order: 3,
		Content: `## Going Online

Pick a website platform that supports local payment gateways such as KNET.

:::warning
Confirm hosting and domain ownership are in your company's name.
:::`,
	},
	{
		Title: "Marketing & Growth", Slug: "marketing-growth", Icon: "TrendingUp", Order: 4,
		Content: `## Reaching Customers

Instagram and WhatsApp remain the primary channels for most local consumer businesses.`,
	},
	{
		Title: "Offices, Workspaces & Logistics", Slug: "offices-logistics", Icon: "MapPin", Order: 5,
		Content: `## Finding a Space

A registered office address is required for licensing. Co-working spaces are often the cheapest route.`,
	},
	{
		Title: "Hiring & Employees in Kuwait", Slug: "hiring-employees", Icon: "Users", Order: 6,
		Content: `## Your First Hire

Budget for work permits, residency fees and social security contributions on top of salary.`,
	},
	{
		Title: "Operations & Founder Tool Stack", Slug: "operations-tools", Icon: "Settings", Order: 7,
		Content: `## Running Day to Day

Keep accounting, invoicing and inventory in tools your accountant can access directly.`,
	},
	{
		Title: "Sample Budgets", Slug: "sample-budgets", Icon: "Calculator", Order: 8,
		Content: `## What Launch Costs

| Item | Range (KWD) |
|------|-------------|
| Registration | 500-2000 |
| Branding | 300-3000 |
| Website | 500-5000 |`,
	},
	{
		Title: "Common Mistakes", Slug: "common-mistakes", Icon: "AlertTriangle", Order: 9,
		Content: `## Avoid These

- Signing partnership agreements without a lawyer
- Underestimating licensing timelines
- Spending on branding before validating demand`,
	},
	{
		Title: "Checklists & Action Plans", Slug: "checklists-action", Icon: "CheckSquare", Order: 10,
		Content: `## Track Your Progress

Use the interactive checklists to work through each stage. Progress is saved to your session.`,
	},
}

var seedCategories = []domain.Category{
	{Name: "Branding", Slug: "branding", Order: 1},
	{Name: "Tech", Slug: "tech", Order: 2},
	{Name: "Legal & Accounting", Slug: "legal-accounting", Order: 3},
	{Name: "Marketing", Slug: "marketing", Order: 4},
	{Name: "Offices & Logistics", Slug: "offices-logistics", Order: 5},
	{Name: "Hiring & Recruitment", Slug: "hiring-recruitment", Order: 6},
}

type seedChecklist struct {
	Title string
	Slug  string
	Order int
	Items []string
}

var seedChecklists = []seedChecklist{
	{Title: "Business Setup Checklist", Slug: "business-setup", Order: 1, Items: []string{
		"Decide on business structure (sole proprietorship, WLL, etc.)",
		"Choose and reserve trade name at Ministry of Commerce",
		"Find a Kuwaiti partner if required (for WLL)",
		"Draft partnership agreement with lawyer",
		"Prepare required documents (civil ID, passport copies)",
		"Open corporate bank account",
		"Deposit minimum capital requirement",
		"Submit commercial registration application",
		"Obtain municipal license",
		"Register with PACI",
		"Set up accounting system",
	}},
	{Title: "Branding Checklist", Slug: "branding", Order: 2, Items: []string{
		"Define your target audience",
		"Research competitor brands",
		"Choose business name (Arabic and English)",
		"Check domain availability",
		"Check social media handle availability",
		"Design or commission logo",
		"Choose brand colors and fonts",
		"Create brand guidelines document",
		"Design business cards",
		"Set up social media profiles",
	}},
	{Title: "Hiring First Employee Checklist", Slug: "hiring", Order: 3, Items: []string{
		"Define role and responsibilities",
		"Set salary range and benefits",
		"Post job on relevant platforms",
		"Review applications and shortlist",
		"Conduct interviews",
		"Check references",
		"Make offer and negotiate",
		"Prepare employment contract",
		"Apply for work permit (if expat)",
		"Complete onboarding process",
		"Register with social security",
	}},
	{Title: "First 90 Days Checklist", Slug: "first-90-days", Order: 4, Items: []string{
		"Complete all business registration",
		"Set up business bank account",
		"Finalize branding and visual identity",
		"Launch website or landing page",
		"Set up social media presence",
		"Create initial content calendar",
		"Set up payment processing",
		"Launch first marketing campaign",
		"Get first 10 customers",
		"Collect and implement feedback",
		"Review and adjust strategy",
	}},
}

// seedProvider references its category by slug; ids are resolved after categories exist.
type seedProvider struct {
	Provider     domain.Provider
	CategorySlug string
}

var seedProviders = []seedProvider{
	{CategorySlug: "branding", Provider: domain.Provider{
		Name:             "Brand Studio Kuwait",
		Description:      "Full-service branding agency specializing in startups and SMEs. They offer logo design, brand identity, and marketing collateral.",
		PriceRange:       domain.PriceMid,
		BestFor:          []string{"Startups", "Rebranding", "Full identity"},
		ContactInstagram: "brandstudiokw",
		PracticalNotes:   "Good turnaround time, responsive on WhatsApp. Ask for their startup package.",
	}},
	{CategorySlug: "tech", Provider: domain.Provider{
		Name:           "Kuwait Web Solutions",
		Description:    "Web development and e-commerce specialists. They build custom websites and Shopify stores with KNET integration.",
		PriceRange:     domain.PriceMid,
		BestFor:        []string{"E-commerce", "Custom websites", "KNET integration"},
		ContactWebsite: "https://example.com",
		PracticalNotes: "Strong technical team. Best for complex projects. Get detailed scope before starting.",
	}},
	{CategorySlug: "legal-accounting", Provider: domain.Provider{
		Name:            "Al-Rashid Legal",
		Description:     "Business law firm handling company formation, contracts, and commercial disputes. English and Arabic speaking lawyers.",
		PriceRange:      domain.PricePremium,
		BestFor:         []string{"Company formation", "Contracts", "Legal disputes"},
		ContactWhatsApp: "+96599999999",
		PracticalNotes:  "Premium pricing but thorough. Good for complex structures or foreign investors.",
	}},
	{CategorySlug: "legal-accounting", Provider: domain.Provider{
		Name:            "Quick Legal Services",
		Description:     "Affordable legal services for basic company registration and PRO services.",
		PriceRange:      domain.PriceBudget,
		BestFor:         []string{"Basic registration", "PRO services", "Document processing"},
		ContactWhatsApp: "+96588888888",
		PracticalNotes:  "Good for straightforward registrations. May need to follow up on timelines.",
	}},
}
