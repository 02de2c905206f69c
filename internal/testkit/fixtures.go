package testkit

import "agroprod/domain/production"

// ScenarioCSV is the two-municipality soy/corn scenario as a CSV upload.
const ScenarioCSV = `nome,prod,quant,area,rend_med,valor
A,soy,10,5,2000,100
A,corn,20,5,4000,50
B,soy,5,1,5000,80
`

// ScenarioRecords returns the records of ScenarioCSV.
func ScenarioRecords() []production.Record {
	return []production.Record{
		{Municipality: "A", Product: "soy", Quantity: 10, Area: 5, AverageYield: 2000, Value: 100},
		{Municipality: "A", Product: "corn", Quantity: 20, Area: 5, AverageYield: 4000, Value: 50},
		{Municipality: "B", Product: "soy", Quantity: 5, Area: 1, AverageYield: 5000, Value: 80},
	}
}
