package server

// DSLReference is served as rct://dsl-reference.
const DSLReference = `# Growth DSL

One declaration per line. Empty lines and lines starting with # are skipped.
Keywords are case sensitive.

## Skeleton

    shoulder X Y
    elbow X Y
    hand X Y
    input X Y

Exactly two inputs between shoulder and elbow (and between elbow and hand)
connect that arm segment.

## Templates

    createMass L [MIN, MAX]      distance window around the cursor
    createSpring L [MIN, MAX]    reach window for the next spring
    expansionRangeX [MIN, MAX]   X bounds for new masses
    randomMasses N
    randomSprings N
    productionRules A->BC D->e
    options showNotConnectedMasses excludeSpringCrossings allowNegativeYValues

L is a single letter.

## Seeds

A seed is rewritten once from left to right with the production rules.
(n){body} repeats body n times and (0){body} drops it. The output is capped
at 1000 characters.

## Construction

Every letter of the expanded seed runs its template. Unknown letters are
reported with their position and skipped.
`
