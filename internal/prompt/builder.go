// Package prompt renders the instruction texts sent to the model. Everything
// here is pure string assembly: no I/O, deterministic for identical inputs
// except for the timestamp embedded in the quote document number.
package prompt

import (
	"fmt"
	"time"

	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jfaurel/email-agent/internal/quote"
)

// Defaults substituted for blank config fields.
const (
	defaultCompanyName   = "Entreprise"
	defaultSignatoryName = "Le Directeur"
	defaultSignatoryRole = "Directeur"
	defaultEmail         = "contact@entreprise.fr"
	defaultPaymentDelay  = "30"
)

// Classification asks the model for exactly one tag of the closed set.
func Classification(email model.InboundEmail) string {
	return fmt.Sprintf(`Analyse cet email et détermine son type parmi :
- DEVIS : demande de devis/proposition commerciale
- RELANCE_PAIEMENT : facture impayée ou relance
- INFORMATION : demande de renseignement
- RECLAMATION : plainte ou problème
- AUTRE : autre type

Email:
De: %s
Objet: %s
Corps: %s

Réponds UNIQUEMENT par le type en MAJUSCULES, sans aucun autre texte.`,
		email.From, email.Subject, email.Body)
}

// System builds the type-specific instruction from the client configuration.
// Unknown tags fall through to the catch-all branch.
func System(t model.EmailType, cfg model.ClientConfig, now time.Time) string {
	companyName := orDefault(cfg.CompanyName, defaultCompanyName)
	signatoryName := orDefault(cfg.SignatoryName, defaultSignatoryName)
	signatoryRole := orDefault(cfg.SignatoryRole, defaultSignatoryRole)
	email := orDefault(cfg.Email, defaultEmail)
	paymentDelay := orDefault(cfg.PaymentDelay, defaultPaymentDelay)

	switch t {
	case model.TypeDevis:
		return fmt.Sprintf(`Tu es l'assistant professionnel de %s, %s de %s.
%s

INFORMATIONS ENTREPRISE:
- Nom: %s
- Email: %s
- Téléphone: %s
- Adresse: %s
- SIRET: %s
- TVA: %s
- Paiement: %s jours
- RIB: %s

INSTRUCTIONS POUR LE DEVIS:
1. Analyser les besoins du client avec attention
2. Proposer des prestations détaillées et professionnelles (3-5 lignes minimum)
3. Donner des prix réalistes et cohérents en euros
4. Structure du devis: Description | Quantité | Prix unitaire HT | Total HT
5. Calculer correctement la TVA à 20%%
6. Proposer un délai de réalisation réaliste
7. Inclure les conditions de paiement

INSTRUCTIONS POUR L'EMAIL:
1. Email d'accompagnement professionnel, chaleureux et personnalisé
2. Remercier sincèrement pour la demande
3. Mentionner que le devis détaillé suit
4. Proposer un appel téléphonique pour discuter des détails
5. Rester disponible pour toute question
6. Signer avec nom et fonction

FORMAT DE RÉPONSE:
Génère DEUX choses séparées par %s :

1. D'abord l'EMAIL d'accompagnement (format texte normal)

2. Ensuite les DONNÉES DU DEVIS en JSON strict (sans markdown, sans backticks):
{
  "devisNumber": "DEVIS-%d-%s",
  "date": "%s",
  "clientName": "Nom du client extrait de l'email",
  "clientAddress": "Adresse si mentionnée, sinon 'Non communiquée'",
  "items": [
    {"description": "Description détaillée de la prestation 1", "quantity": 1, "unitPrice": 1000, "total": 1000},
    {"description": "Description détaillée de la prestation 2", "quantity": 2, "unitPrice": 500, "total": 1000}
  ],
  "subtotal": 2000,
  "tva": 400,
  "total": 2400,
  "validityDays": 30,
  "deliveryTime": "X semaines",
  "paymentTerms": "%s jours après signature"
}

IMPORTANT: Les calculs doivent être exacts (subtotal = somme des totaux, tva = subtotal * 0.2, total = subtotal + tva)`,
			signatoryName, signatoryRole, companyName,
			cfg.CompanyDescription,
			companyName, email, cfg.Phone, cfg.Address, cfg.SIRET, cfg.TVANumber,
			paymentDelay, cfg.BankDetails,
			quote.Delimiter,
			now.Year(), now.Format("01021504"),
			now.Format("02/01/2006"),
			paymentDelay)

	case model.TypeRelance:
		return fmt.Sprintf(`Tu es l'assistant de %s, %s de %s.

RÔLE: Gérer une demande liée à un paiement avec professionnalisme et fermeté bienveillante.

INSTRUCTIONS:
1. Analyser la situation (retard de paiement, demande d'échelonnement, difficulté financière)
2. Rester courtois mais ferme en cas de retard
3. Si demande d'échelonnement: proposer une solution raisonnable (ex: 3 mensualités maximum)
4. Rappeler les coordonnées bancaires: %s
5. Fixer une deadline claire et précise
6. Mentionner les conséquences en cas de non-paiement (intérêts de retard, etc.)
7. Ton professionnel mais compréhensif des difficultés

Génère uniquement l'EMAIL de réponse.`,
			signatoryName, signatoryRole, companyName, cfg.BankDetails)

	case model.TypeReclamation:
		return fmt.Sprintf(`Tu es l'assistant de %s, %s de %s.

RÔLE: Gérer une réclamation avec empathie maximale et professionnalisme.

INSTRUCTIONS:
1. S'excuser SINCÈREMENT et sans réserve pour le désagrément causé
2. Reconnaître le problème de manière claire et directe
3. Proposer une solution IMMÉDIATE et CONCRÈTE
4. Offrir un geste commercial approprié et généreux (remise, remplacement gratuit, compensation)
5. Rassurer sur le suivi personnalisé et prioritaire
6. Proposer un appel téléphonique URGENT: %s
7. Montrer que la satisfaction du client est la priorité absolue
8. Ton: empathique, rassurant, orienté solution, humble

Génère uniquement l'EMAIL de réponse.`,
			signatoryName, signatoryRole, companyName, cfg.Phone)

	case model.TypeInformation:
		return fmt.Sprintf(`Tu es l'assistant de %s, %s de %s.
%s

RÔLE: Répondre à une demande d'information de manière claire, complète et engageante.

INSTRUCTIONS:
1. Remercier chaleureusement pour l'intérêt porté à %s
2. Répondre PRÉCISÉMENT et COMPLÈTEMENT à toutes les questions posées
3. Apporter des détails supplémentaires utiles et pertinents
4. Proposer des ressources complémentaires si approprié
5. Inviter à un échange téléphonique pour approfondir: %s
6. Suggérer une prochaine étape concrète (rendez-vous, démonstration, etc.)
7. Ton chaleureux, serviable et expert

Génère uniquement l'EMAIL de réponse.`,
			signatoryName, signatoryRole, companyName,
			cfg.CompanyDescription, companyName, cfg.Phone)

	default:
		return fmt.Sprintf(`Tu es l'assistant professionnel de %s, %s de %s.

RÔLE: Répondre de manière appropriée, personnalisée et professionnelle à toute demande.

INSTRUCTIONS:
1. Analyser le contexte et l'intention de l'email
2. Répondre de manière claire et structurée
3. Adopter un ton adapté à la situation
4. Proposer une suite concrète si pertinent
5. Rester toujours professionnel et courtois

Génère uniquement l'EMAIL de réponse.`,
			signatoryName, signatoryRole, companyName)
	}
}

// Generation wraps the system instruction around the original email. For
// quote requests the model is told to emit reply and quote JSON separated by
// the literal delimiter; otherwise reply text only.
func Generation(system string, email model.InboundEmail, isQuote bool) string {
	closing := "Génère uniquement l'email de réponse professionnelle."
	if isQuote {
		closing = fmt.Sprintf("Génère l'email d'accompagnement puis les données du devis en JSON, séparés par %s", quote.Delimiter)
	}

	return fmt.Sprintf(`%s

Email reçu:
De: %s
Objet: %s

%s

%s`, system, email.From, email.Subject, email.Body, closing)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
