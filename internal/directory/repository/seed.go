package repository

import (
	"context"
	"log"

	"github.com/karigar-kart/karigar-backend/internal/directory/domain"
)

// Seed populates the directory with the demo marketplace data set.
// Note rajesh.k has no skills or bio yet: his profile is deliberately
// incomplete so the profile-completion flow is reachable out of the box.
func Seed(ctx context.Context, d Directory) {
	workers := []domain.WorkerRecord{
		{
			ID:         "worker-1",
			Name:       "Suresh Patil",
			Email:      "suresh.p@example.com",
			Phone:      "+91 98200 11223",
			Skills:     []domain.ServiceCategory{domain.CategoryPlumbing},
			Bio:        "15 years fixing leaks, fittings and bathroom installations across Pune.",
			HourlyRate: 350,
			Rating:     4.8,
			JobsDone:   212,
			Area:       "Kothrud",
		},
		{
			ID:         "worker-2",
			Name:       "Anita Deshmukh",
			Email:      "anita.d@example.com",
			Phone:      "+91 98230 44556",
			Skills:     []domain.ServiceCategory{domain.CategoryElectrical, domain.CategoryApplianceRepair},
			Bio:        "Licensed electrician. Wiring, inverters, fans and small appliance repair.",
			HourlyRate: 400,
			Rating:     4.6,
			JobsDone:   158,
			Area:       "Baner",
		},
		{
			ID:         "worker-3",
			Name:       "Mohammed Irfan",
			Email:      "irfan.m@example.com",
			Phone:      "+91 99700 77889",
			Skills:     []domain.ServiceCategory{domain.CategoryCarpentry},
			Bio:        "Custom furniture, door and window repair, modular kitchen fittings.",
			HourlyRate: 450,
			Rating:     4.9,
			JobsDone:   301,
			Area:       "Hadapsar",
		},
		{
			ID:         "worker-4",
			Name:       "Kavita More",
			Email:      "kavita.m@example.com",
			Phone:      "+91 98500 33221",
			Skills:     []domain.ServiceCategory{domain.CategoryCleaning},
			Bio:        "Deep cleaning for homes and offices, sofa and carpet shampooing.",
			HourlyRate: 250,
			Rating:     4.4,
			JobsDone:   97,
			Area:       "Viman Nagar",
		},
		{
			ID:       "worker-5",
			Name:     "Rajesh Kulkarni",
			Email:    "rajesh.k@example.com",
			Phone:    "+91 98600 55667",
			Skills:   nil,
			Bio:      "",
			Rating:   0,
			JobsDone: 0,
			Area:     "Shivajinagar",
		},
	}

	customers := []domain.CustomerRecord{
		{
			ID:      "customer-1",
			Name:    "Priya Sharma",
			Email:   "priya.s@example.com",
			Phone:   "+91 98765 43210",
			Address: "B-402, Silver Oak Society, Aundh, Pune 411007",
		},
		{
			ID:    "customer-2",
			Name:  "Amit Verma",
			Email: "amit.v@example.com",
			Phone: "+91 91234 56789",
			// No address yet: incomplete profile.
		},
	}

	for i := range workers {
		if err := d.InsertWorker(ctx, &workers[i]); err != nil {
			log.Printf("directory seed: worker %s: %v", workers[i].Email, err)
		}
	}
	for i := range customers {
		if err := d.InsertCustomer(ctx, &customers[i]); err != nil {
			log.Printf("directory seed: customer %s: %v", customers[i].Email, err)
		}
	}
}
