package web

type faqEntry struct {
	Question string
	Summary  string
	Points   []faqPoint
}

type faqPoint struct {
	Term string
	Text string
}

var faq = []faqEntry{
	{
		Question: "What is Resting Blood Pressure (trestbps)?",
		Summary:  "This is the pressure in your arteries when your heart is at rest, between beats, measured in mm Hg.",
		Points: []faqPoint{
			{"Health Impact", "Consistently high blood pressure (hypertension) can damage your arteries and heart, increasing the risk of heart attack and stroke."},
			{"Nominal Range", "Less than 120/80 mm Hg."},
		},
	},
	{
		Question: "What is Serum Cholesterol (chol)?",
		Summary:  "This is the total amount of cholesterol in your blood, measured in mg/dL.",
		Points: []faqPoint{
			{"Health Impact", "High levels can lead to plaque buildup in your arteries (atherosclerosis), which narrows them and increases the risk of blood clots and heart attacks."},
			{"Nominal Range", "Less than 200 mg/dL."},
		},
	},
	{
		Question: "What is Fasting Blood Sugar (fbs)?",
		Summary:  "This measures your blood glucose level after fasting for at least 8 hours.",
		Points: []faqPoint{
			{"Health Impact", "High levels can indicate prediabetes or diabetes, which are major risk factors for heart disease and can damage nerves and blood vessels over time."},
			{"Nominal Range", "Less than 100 mg/dL."},
		},
	},
	{
		Question: "What is Maximum Heart Rate Achieved (thalch)?",
		Summary:  "This is the highest your heart rate reached during a stress test.",
		Points: []faqPoint{
			{"Health Impact", "A lower-than-expected maximum heart rate can indicate coronary artery disease, as the heart is unable to respond properly to the demand for more oxygen."},
			{"Nominal Range", "Varies with age. A common estimate is 220 minus your age."},
		},
	},
	{
		Question: "What is Exercise Induced Angina (exang)?",
		Summary:  "This indicates whether you experienced chest pain (angina) during a physical stress test.",
		Points: []faqPoint{
			{"Health Impact", "Angina during exercise is a classic sign of coronary artery disease, meaning the heart muscle isn't getting enough oxygen-rich blood when it's working hard."},
			{"Nominal Range", "False (No chest pain)."},
		},
	},
	{
		Question: "What is ST Depression (oldpeak)?",
		Summary:  "This measures a specific change on an electrocardiogram (ECG) during a stress test compared to the resting state.",
		Points: []faqPoint{
			{"Health Impact", "Significant ST depression is a strong indicator that a part of the heart is not receiving enough blood flow, suggesting potential blockages."},
			{"Nominal Range", "0 (No depression)."},
		},
	},
	{
		Question: "What is the Number of major vessels (ca)?",
		Summary:  "This is the number of major coronary arteries that appear blocked or narrowed during a fluoroscopy test.",
		Points: []faqPoint{
			{"Health Impact", "The higher the number, the more widespread the coronary artery disease, directly correlating with a higher risk of a future heart attack."},
			{"Nominal Range", "0 (No major vessels appear blocked)."},
		},
	},
	{
		Question: "What is Thalassemia (thal)?",
		Summary:  "This refers to the result of a thallium stress test, which shows blood flow to the heart muscle.",
		Points: []faqPoint{
			{"Normal", "Blood flow is normal."},
			{"Fixed Defect", "A permanent area of damage, likely from a previous heart attack."},
			{"Reversible Defect", "A temporary blood flow problem that occurs during exercise but not at rest, indicating a blockage."},
			{"Health Impact", "A \"reversible defect\" is a critical finding that points to significant coronary artery disease."},
		},
	},
}
