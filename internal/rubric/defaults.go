// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rubric

import "github.com/pdiddy/lit-miner/pkg/types"

// DefaultConfig returns the built-in scoring tables.
func DefaultConfig() types.RubricConfig {
	return types.RubricConfig{
		TopJournals: []types.JournalWeight{
			// Dentistry / periodontology
			{Name: "Periodontology 2000", Bonus: 10},
			{Name: "Journal of clinical periodontology", Bonus: 8},
			{Name: "Journal of periodontology", Bonus: 6},
			{Name: "Clinical oral implants research", Bonus: 5},
			{Name: "International journal of oral implantology", Bonus: 5},

			// Neuroscience
			{Name: "Nature Neuroscience", Bonus: 15},
			{Name: "Neuron", Bonus: 15},
			{Name: "Nature Reviews Neuroscience", Bonus: 15},
			{Name: "Brain", Bonus: 12},
			{Name: "Lancet Neurology", Bonus: 12},
			{Name: "JAMA Neurology", Bonus: 12},
			{Name: "Annals of Neurology", Bonus: 12},
			{Name: "Biological Psychiatry", Bonus: 10},
			{Name: "Journal of Neuroscience", Bonus: 8},
			{Name: "Molecular Psychiatry", Bonus: 8},
			{Name: "Trends in Neurosciences", Bonus: 8},
			{Name: "Cerebral Cortex", Bonus: 7},
			{Name: "NeuroImage", Bonus: 7},
			{Name: "Journal of Neurophysiology", Bonus: 6},

			// Cardiology
			{Name: "Circulation", Bonus: 15},
			{Name: "European Heart Journal", Bonus: 15},
			{Name: "Journal of the American College of Cardiology", Bonus: 14},
			{Name: "JAMA Cardiology", Bonus: 12},
			{Name: "Circulation Research", Bonus: 10},
			{Name: "Cardiovascular Research", Bonus: 8},

			// Oncology
			{Name: "CA: A Cancer Journal for Clinicians", Bonus: 15},
			{Name: "Nature Reviews Cancer", Bonus: 15},
			{Name: "The Lancet Oncology", Bonus: 14},
			{Name: "Journal of Clinical Oncology", Bonus: 12},
			{Name: "Cancer Cell", Bonus: 12},
			{Name: "Annals of Oncology", Bonus: 10},

			// General medicine
			{Name: "Nature", Bonus: 16},
			{Name: "Science", Bonus: 16},
			{Name: "The New England Journal of Medicine", Bonus: 16},
			{Name: "The Lancet", Bonus: 15},
			{Name: "JAMA", Bonus: 15},
			{Name: "Nature Medicine", Bonus: 15},
			{Name: "BMJ", Bonus: 12},
			{Name: "PLOS Medicine", Bonus: 10},

			// Psychiatry
			{Name: "American Journal of Psychiatry", Bonus: 10},
			{Name: "JAMA Psychiatry", Bonus: 10},
			{Name: "Schizophrenia Bulletin", Bonus: 8},

			// Immunology / infectious disease
			{Name: "Nature Immunology", Bonus: 14},
			{Name: "Immunity", Bonus: 14},
			{Name: "The Lancet Infectious Diseases", Bonus: 12},
		},
		CitationRules: []types.CitationRule{
			{Threshold: 200, Bonus: 4},
			{Threshold: 100, Bonus: 3},
			{Threshold: 50, Bonus: 2},
			{Threshold: 10, Bonus: 1},
		},
		RecencyMaxScore:  5,
		DataQualityBonus: 2,
		ImpactFactors: []types.JournalImpact{
			{Name: "Nature", Factor: 64.8},
			{Name: "Science", Factor: 56.9},
			{Name: "The New England Journal of Medicine", Factor: 158.5},
			{Name: "The Lancet", Factor: 168.9},
			{Name: "JAMA", Factor: 120.7},
			{Name: "Nature Medicine", Factor: 87.2},
			{Name: "BMJ", Factor: 93.6},
			{Name: "PLOS Medicine", Factor: 11.0},

			{Name: "Nature Neuroscience", Factor: 28.8},
			{Name: "Neuron", Factor: 16.2},
			{Name: "Nature Reviews Neuroscience", Factor: 38.1},
			{Name: "Brain", Factor: 15.0},
			{Name: "Lancet Neurology", Factor: 59.9},
			{Name: "JAMA Neurology", Factor: 30.4},
			{Name: "Annals of Neurology", Factor: 11.2},
			{Name: "Biological Psychiatry", Factor: 12.8},
			{Name: "Journal of Neuroscience", Factor: 6.2},
			{Name: "Molecular Psychiatry", Factor: 11.0},
			{Name: "Trends in Neurosciences", Factor: 15.2},
			{Name: "Cerebral Cortex", Factor: 4.3},
			{Name: "NeuroImage", Factor: 5.7},
			{Name: "Journal of Neurophysiology", Factor: 2.5},

			{Name: "Circulation", Factor: 37.8},
			{Name: "European Heart Journal", Factor: 39.3},
			{Name: "Journal of the American College of Cardiology", Factor: 24.0},
			{Name: "JAMA Cardiology", Factor: 18.3},
			{Name: "Circulation Research", Factor: 20.1},
			{Name: "Cardiovascular Research", Factor: 10.9},

			{Name: "CA: A Cancer Journal for Clinicians", Factor: 254.7},
			{Name: "Nature Reviews Cancer", Factor: 69.8},
			{Name: "The Lancet Oncology", Factor: 54.4},
			{Name: "Journal of Clinical Oncology", Factor: 45.3},
			{Name: "Cancer Cell", Factor: 38.6},
			{Name: "Annals of Oncology", Factor: 51.8},

			{Name: "American Journal of Psychiatry", Factor: 19.6},
			{Name: "JAMA Psychiatry", Factor: 22.5},
			{Name: "Schizophrenia Bulletin", Factor: 9.3},

			{Name: "Nature Immunology", Factor: 30.5},
			{Name: "Immunity", Factor: 32.4},
			{Name: "The Lancet Infectious Diseases", Factor: 36.4},

			{Name: "Periodontology 2000", Factor: 17.2},
			{Name: "Journal of clinical periodontology", Factor: 6.5},
			{Name: "Journal of periodontology", Factor: 4.1},
			{Name: "Clinical oral implants research", Factor: 5.0},
			{Name: "International journal of oral implantology", Factor: 2.3},
		},
	}
}
