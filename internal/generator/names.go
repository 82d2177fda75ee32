package generator

var firstNames = []string{
	"Liam", "Emma", "Noah", "Olivia", "Ava", "Isabella", "Sophia", "Mia", "Charlotte", "Amelia",
	"Lucas", "Mila", "Jack", "Emily", "Benjamin", "Ethan", "Samuel", "Eva", "Thomas", "Zoë",
}

var lastNames = []string{
	"de Jong", "Jansen", "Bakker", "Visser", "Smit", "Meijer", "Mulder", "Bos", "Vos", "Peters",
	"Hendriks", "Kok", "van Dijk", "de Graaf", "van Leeuwen", "van der Meer", "Sanders", "Willems", "Kuipers", "Koster",
}

var companyPrefixes = []string{"North", "Blue", "Bright", "Next", "Prime", "Urban", "Atlas", "Delta", "Aurora", "Summit"}

var companySuffixes = []string{
	"Analytics", "Logistics", "Studios", "Foods", "Consulting", "Industries", "Labs", "Retail", "Capital", "Ventures",
}

var positionTitles = []string{
	"Analyst", "Engineer", "Account Manager", "Designer", "Operations Lead", "Consultant", "Support Specialist", "Controller",
}

var propertyManagers = []string{"Canal Properties", "Skyline Rentals", "Harbor Estates", "CityLiving BV"}

type merchant struct {
	name     string
	category string
}

var cardMerchants = []merchant{
	{"Albert Heijn", "Groceries"},
	{"Jumbo Supermarkt", "Groceries"},
	{"Bol.com", "Shopping"},
	{"Coolblue", "Electronics"},
	{"NS International", "Transport"},
	{"Uber BV", "Transport"},
	{"Thuisbezorgd", "Dining"},
	{"Starbucks", "Dining"},
	{"Spotify", "Subscriptions"},
	{"Netflix", "Subscriptions"},
	{"Basic-Fit", "Fitness"},
	{"Ziggo", "Utilities"},
	{"HEMA", "Shopping"},
	{"KLM", "Travel"},
	{"Booking.com", "Travel"},
	{"IKEA", "Home"},
	{"Etos", "Healthcare"},
}

var businessVendors = []string{
	"CloudServe NL", "Green Energy Co", "OfficePlus", "TalentSource", "MarketingHive",
	"SupplyChain One", "EventMakers", "FleetMotion", "Insight Analytics", "Canal Works",
}

var customers = []string{
	"Riverside Hotels", "City Council", "Orion Retail", "Bright Schools", "Lumen Health",
	"Vertex Labs", "Horizon Logistics", "Zenith Media", "Orbit Foods", "Nimbus Software",
}

// Category names booked by the generator in addition to the engine's own.
const (
	categoryRent             = "Rent"
	categoryUtilities        = "Utilities"
	categorySavingsTransfer  = "Savings transfer"
	categoryBrokerageDeposit = "Brokerage deposit"
	categoryVendorPayment    = "Vendor payment"
	categoryCustomerPayment  = "Customer payment"
	categoryVAT              = "VAT"
)
