package masterdata

// DefaultCriteria returns the 23 GHG Protocol reporting categories.
func DefaultCriteria() []Criteria {
	criteria := []Criteria{
		// Scope 1 - Direct Emissions
		{CriteriaNumber: 1, Scope: "Scope 1", Category: "Stationary Combustion", Subcategory: "Fuel consumption in boilers, furnaces", Unit: "liters/kg", HelpText: "Enter total fuel consumed in stationary equipment"},
		{CriteriaNumber: 2, Scope: "Scope 1", Category: "Mobile Combustion", Subcategory: "Company-owned vehicles", Unit: "liters", HelpText: "Enter fuel used by company vehicles"},
		{CriteriaNumber: 3, Scope: "Scope 1", Category: "Process Emissions", Subcategory: "Industrial processes", Unit: "kg", HelpText: "Emissions from chemical reactions, manufacturing processes"},
		{CriteriaNumber: 4, Scope: "Scope 1", Category: "Fugitive Emissions", Subcategory: "Refrigerants, AC systems", Unit: "kg", HelpText: "Leakage from refrigeration and AC systems"},
		{CriteriaNumber: 5, Scope: "Scope 1", Category: "Land Use, Land-Use Change, Forestry (LULUCF)", Subcategory: "Forestry activities", Unit: "hectares", HelpText: "Carbon sequestration or emissions from land use"},

		// Scope 2 - Indirect Emissions (Energy)
		{CriteriaNumber: 6, Scope: "Scope 2", Category: "Purchased Electricity", Subcategory: "Grid electricity consumption", Unit: "kWh", HelpText: "Enter total electricity consumed from grid"},
		{CriteriaNumber: 7, Scope: "Scope 2", Category: "Purchased Heat/Steam/Cooling", Subcategory: "District heating/cooling", Unit: "GJ", HelpText: "Energy purchased for heating or cooling"},

		// Scope 3 - Other Indirect Emissions
		{CriteriaNumber: 8, Scope: "Scope 3", Category: "Upstream Transportation", Subcategory: "Inbound logistics", Unit: "tonne-km", HelpText: "Transportation of purchased goods to facility"},
		{CriteriaNumber: 9, Scope: "Scope 3", Category: "Downstream Transportation", Subcategory: "Outbound logistics", Unit: "tonne-km", HelpText: "Transportation of products to customers"},
		{CriteriaNumber: 10, Scope: "Scope 3", Category: "Business Travel", Subcategory: "Employee travel", Unit: "km", HelpText: "Air, rail, and road travel by employees"},
		{CriteriaNumber: 11, Scope: "Scope 3", Category: "Employee Commuting", Subcategory: "Daily commute", Unit: "km", HelpText: "Employee transportation to/from work"},
		{CriteriaNumber: 12, Scope: "Scope 3", Category: "Purchased Goods and Services", Subcategory: "Raw materials, supplies", Unit: "USD", HelpText: "Emissions from production of purchased items"},
		{CriteriaNumber: 13, Scope: "Scope 3", Category: "Capital Goods", Subcategory: "Equipment, buildings", Unit: "USD", HelpText: "Emissions from production of capital equipment"},
		{CriteriaNumber: 14, Scope: "Scope 3", Category: "Waste Generated in Operations", Subcategory: "Solid waste disposal", Unit: "tonnes", HelpText: "Waste sent to landfill, incineration, recycling"},
		{CriteriaNumber: 15, Scope: "Scope 3", Category: "Upstream Leased Assets", Subcategory: "Leased facilities", Unit: "m2", HelpText: "Emissions from operation of leased assets"},
		{CriteriaNumber: 16, Scope: "Scope 3", Category: "Downstream Leased Assets", Subcategory: "Assets leased to others", Unit: "m2", HelpText: "Emissions from assets company leases to others"},
		{CriteriaNumber: 17, Scope: "Scope 3", Category: "Processing of Sold Products", Subcategory: "Intermediate products", Unit: "tonnes", HelpText: "Processing of intermediate products by third parties"},
		{CriteriaNumber: 18, Scope: "Scope 3", Category: "Use of Sold Products", Subcategory: "Product lifetime emissions", Unit: "units", HelpText: "Emissions during customer use of products"},
		{CriteriaNumber: 19, Scope: "Scope 3", Category: "End-of-Life Treatment", Subcategory: "Product disposal", Unit: "tonnes", HelpText: "Disposal and recycling of sold products"},
		{CriteriaNumber: 20, Scope: "Scope 3", Category: "Franchises", Subcategory: "Franchise operations", Unit: "locations", HelpText: "Emissions from franchised operations"},
		{CriteriaNumber: 21, Scope: "Scope 3", Category: "Investments", Subcategory: "Investment portfolio", Unit: "USD", HelpText: "Emissions from investments and financial assets"},
		{CriteriaNumber: 22, Scope: "Scope 3", Category: "Upstream Fuel and Energy", Subcategory: "Extraction, production", Unit: "kWh", HelpText: "Emissions from fuel/energy production"},
		{CriteriaNumber: 23, Scope: "Scope 3", Category: "Water Consumption", Subcategory: "Municipal water", Unit: "m3", HelpText: "Water supply and treatment emissions"},
	}
	for i := range criteria {
		criteria[i].IsActive = true
	}
	return criteria
}

// DefaultReasonCodes returns the standard review rejection reasons.
func DefaultReasonCodes() []ReasonCode {
	codes := []ReasonCode{
		{Code: "DQ001", Description: "Incomplete or missing activity data", Category: "Data Quality"},
		{Code: "DQ002", Description: "Data values appear incorrect or unrealistic", Category: "Data Quality"},
		{Code: "DQ003", Description: "Units not specified or incorrect", Category: "Data Quality"},
		{Code: "EV001", Description: "Supporting evidence missing or insufficient", Category: "Evidence"},
		{Code: "EV002", Description: "Evidence does not match reported data", Category: "Evidence"},
		{Code: "CALC001", Description: "Emission factor selection inappropriate", Category: "Calculation Error"},
		{Code: "CALC002", Description: "Calculation methodology incorrect", Category: "Calculation Error"},
		{Code: "CALC003", Description: "Unit conversion error detected", Category: "Calculation Error"},
		{Code: "SCOPE001", Description: "Activity categorized under wrong scope", Category: "Scope Classification"},
		{Code: "OTHER", Description: "Other issues - see comments", Category: "Other"},
	}
	for i := range codes {
		codes[i].IsActive = true
	}
	return codes
}

// DefaultFactors returns a representative emission factor set.
func DefaultFactors() []EmissionFactor {
	return []EmissionFactor{
		// Scope 1 - Fuels
		{FactorName: "Diesel combustion, stationary", Category: "Fuel", Subcategory: "Diesel", Scope: "Scope 1", Factor: 2.68, Unit: "kgCO2e/liter", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Natural gas combustion, stationary", Category: "Fuel", Subcategory: "Natural Gas", Scope: "Scope 1", Factor: 2.02, Unit: "kgCO2e/m3", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "LPG combustion, stationary", Category: "Fuel", Subcategory: "LPG", Scope: "Scope 1", Factor: 1.51, Unit: "kgCO2e/kg", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Coal combustion, stationary", Category: "Fuel", Subcategory: "Coal", Scope: "Scope 1", Factor: 2.42, Unit: "kgCO2e/kg", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Petrol/Gasoline combustion, mobile", Category: "Fuel", Subcategory: "Petrol", Scope: "Scope 1", Factor: 2.31, Unit: "kgCO2e/liter", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Diesel combustion, mobile", Category: "Fuel", Subcategory: "Diesel", Scope: "Scope 1", Factor: 2.68, Unit: "kgCO2e/liter", GWP: 1.0, Region: "Global", Year: 2023},

		// Scope 1 - Refrigerants
		{FactorName: "R-134a refrigerant", Category: "Refrigerant", Subcategory: "HFC", Scope: "Scope 1", Factor: 1430, Unit: "kgCO2e/kg", GWP: 1430, Region: "Global", Year: 2023},
		{FactorName: "R-410A refrigerant", Category: "Refrigerant", Subcategory: "HFC", Scope: "Scope 1", Factor: 2088, Unit: "kgCO2e/kg", GWP: 2088, Region: "Global", Year: 2023},

		// Scope 2 - Electricity
		{FactorName: "Electricity, grid mix, USA", Category: "Electricity", Subcategory: "Grid", Scope: "Scope 2", Factor: 0.417, Unit: "kgCO2e/kWh", GWP: 1.0, Region: "USA", Year: 2023},
		{FactorName: "Electricity, grid mix, EU-27", Category: "Electricity", Subcategory: "Grid", Scope: "Scope 2", Factor: 0.295, Unit: "kgCO2e/kWh", GWP: 1.0, Region: "EU-27", Year: 2023},
		{FactorName: "Electricity, grid mix, India", Category: "Electricity", Subcategory: "Grid", Scope: "Scope 2", Factor: 0.708, Unit: "kgCO2e/kWh", GWP: 1.0, Region: "India", Year: 2023},
		{FactorName: "Electricity, grid mix, China", Category: "Electricity", Subcategory: "Grid", Scope: "Scope 2", Factor: 0.581, Unit: "kgCO2e/kWh", GWP: 1.0, Region: "China", Year: 2023},
		{FactorName: "Electricity, grid mix, UK", Category: "Electricity", Subcategory: "Grid", Scope: "Scope 2", Factor: 0.233, Unit: "kgCO2e/kWh", GWP: 1.0, Region: "UK", Year: 2023},
		{FactorName: "Electricity, renewable energy", Category: "Electricity", Subcategory: "Renewable", Scope: "Scope 2", Factor: 0.024, Unit: "kgCO2e/kWh", GWP: 1.0, Region: "Global", Year: 2023},

		// Scope 3 - Transportation
		{FactorName: "Freight transport, truck, diesel, >32t", Category: "Transport", Subcategory: "Road Freight", Scope: "Scope 3", Factor: 0.062, Unit: "kgCO2e/tonne-km", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Freight transport, train, diesel", Category: "Transport", Subcategory: "Rail Freight", Scope: "Scope 3", Factor: 0.022, Unit: "kgCO2e/tonne-km", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Freight transport, ship, container", Category: "Transport", Subcategory: "Sea Freight", Scope: "Scope 3", Factor: 0.012, Unit: "kgCO2e/tonne-km", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Freight transport, aircraft", Category: "Transport", Subcategory: "Air Freight", Scope: "Scope 3", Factor: 0.602, Unit: "kgCO2e/tonne-km", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Passenger transport, car, average", Category: "Transport", Subcategory: "Passenger Car", Scope: "Scope 3", Factor: 0.171, Unit: "kgCO2e/km", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Passenger transport, aircraft, short-haul", Category: "Transport", Subcategory: "Aviation", Scope: "Scope 3", Factor: 0.158, Unit: "kgCO2e/passenger-km", GWP: 1.0, Region: "Global", Year: 2023},

		// Scope 3 - Waste
		{FactorName: "Waste treatment, municipal solid waste, landfill", Category: "Waste", Subcategory: "Landfill", Scope: "Scope 3", Factor: 467, Unit: "kgCO2e/tonne", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Waste treatment, municipal solid waste, incineration", Category: "Waste", Subcategory: "Incineration", Scope: "Scope 3", Factor: 421, Unit: "kgCO2e/tonne", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Waste treatment, recycling, average", Category: "Waste", Subcategory: "Recycling", Scope: "Scope 3", Factor: 21, Unit: "kgCO2e/tonne", GWP: 1.0, Region: "Global", Year: 2023},

		// Scope 3 - Water
		{FactorName: "Water supply, municipal", Category: "Water", Subcategory: "Supply", Scope: "Scope 3", Factor: 0.344, Unit: "kgCO2e/m3", GWP: 1.0, Region: "Global", Year: 2023},
		{FactorName: "Wastewater treatment, municipal", Category: "Water", Subcategory: "Treatment", Scope: "Scope 3", Factor: 0.708, Unit: "kgCO2e/m3", GWP: 1.0, Region: "Global", Year: 2023},
	}
}
